package detectors

import (
	"regexp"

	"github.com/droidaudit/droidaudit/internal/types"
)

// LibraryKind separates plain third-party libraries from advertising and
// analytics SDKs, which carry privacy implications.
type LibraryKind string

const (
	KindLibrary   LibraryKind = "library"
	KindAdNetwork LibraryKind = "ad-network"
	KindTracking  LibraryKind = "tracking"
)

// Library is a detectable SDK. Pattern finds any reference in a file; Import
// counts import statements of the SDK.
type Library struct {
	Name    string
	Kind    LibraryKind
	Pattern *regexp.Regexp
	Import  *regexp.Regexp
}

// Category maps a library kind onto its finding category.
func (k LibraryKind) Category() types.Category {
	switch k {
	case KindAdNetwork:
		return types.CatAdNetwork
	case KindTracking:
		return types.CatTrackingLibrary
	default:
		return types.CatThirdPartyLib
	}
}

func library(kind LibraryKind, name, pattern string) Library {
	return Library{
		Name:    name,
		Kind:    kind,
		Pattern: ci(pattern),
		Import:  ci(`import\s+((?:` + pattern + `)[^;]*);`),
	}
}

// NetworkLibraries are the HTTP stacks whose presence warrants a review note.
var NetworkLibraries = []string{"Retrofit", "OkHttp", "Volley"}

// Libraries returns the SDK catalog in reporting order.
func Libraries() []Library {
	lib := func(name, pattern string) Library { return library(KindLibrary, name, pattern) }
	ad := func(name, pattern string) Library { return library(KindAdNetwork, name, pattern) }
	track := func(name, pattern string) Library { return library(KindTracking, name, pattern) }
	return []Library{
		lib("Retrofit", `retrofit2|com\.squareup\.retrofit`),
		lib("OkHttp", `okhttp3|com\.squareup\.okhttp`),
		lib("Volley", `com\.android\.volley`),
		lib("Gson", `com\.google\.gson`),
		lib("Jackson", `com\.fasterxml\.jackson`),
		lib("Picasso", `com\.squareup\.picasso`),
		lib("Glide", `com\.bumptech\.glide`),
		lib("Firebase", `com\.google\.firebase`),
		lib("Facebook SDK", `com\.facebook\.`),
		lib("Google Maps", `com\.google\.android\.gms\.maps`),
		lib("Crashlytics", `com\.crashlytics|io\.fabric`),
		lib("Lottie", `com\.airbnb\.lottie`),
		lib("ZXing", `com\.google\.zxing`),
		lib("ReactiveX", `io\.reactivex`),
		lib("Realm", `io\.realm`),
		lib("Butterknife", `butterknife`),
		lib("Dagger", `dagger`),
		lib("Kotlin Coroutines", `kotlinx\.coroutines`),
		lib("ExoPlayer", `com\.google\.android\.exoplayer`),
		lib("Admob", `com\.google\.android\.gms\.ads`),
		lib("OneSignal", `com\.onesignal`),
		lib("AWS SDK", `com\.amazonaws`),
		lib("Stetho", `com\.facebook\.stetho`),

		ad("AdMob", `com\.google\.android\.gms\.ads`),
		ad("Facebook Audience Network", `com\.facebook\.ads`),
		ad("AppLovin", `com\.applovin`),
		ad("Unity Ads", `com\.unity3d\.ads|UnityAds`),
		ad("MoPub", `com\.mopub`),
		ad("Chartboost", `com\.chartboost`),
		ad("InMobi", `com\.inmobi`),
		ad("Tapjoy", `com\.tapjoy`),
		ad("ironSource", `com\.ironsource`),
		ad("Vungle", `com\.vungle`),
		ad("AdColony", `com\.adcolony`),

		track("Google Analytics", `com\.google\.android\.gms\.analytics`),
		track("Firebase Analytics", `com\.google\.firebase\.analytics`),
		track("Flurry", `com\.flurry`),
		track("Mixpanel", `com\.mixpanel`),
		track("Amplitude", `com\.amplitude`),
		track("Crashlytics", `com\.crashlytics|io\.fabric\.sdk\.android\.Fabric`),
		track("Appsflyer", `com\.appsflyer`),
		track("Adjust", `com\.adjust\.sdk`),
		track("Branch", `io\.branch`),
		track("Segment", `com\.segment`),
		track("Lokalise", `com\.lokalise`),
		track("Leanplum", `com\.leanplum`),
	}
}
