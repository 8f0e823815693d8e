package detectors

import (
	"regexp"
	"strings"
)

// PermissionClass is the protection class a permission is reported under.
type PermissionClass string

const (
	ClassDangerous PermissionClass = "dangerous"
	ClassSignature PermissionClass = "signature"
	ClassNormal    PermissionClass = "normal"
	ClassCustom    PermissionClass = "custom"
)

const androidPermission = "android.permission."

var dangerousPermissions = prefixed(
	"READ_CALENDAR", "WRITE_CALENDAR", "CAMERA", "READ_CONTACTS", "WRITE_CONTACTS",
	"GET_ACCOUNTS", "ACCESS_FINE_LOCATION", "ACCESS_COARSE_LOCATION", "ACCESS_BACKGROUND_LOCATION",
	"RECORD_AUDIO", "READ_PHONE_STATE", "READ_PHONE_NUMBERS", "CALL_PHONE", "ANSWER_PHONE_CALLS",
	"READ_CALL_LOG", "WRITE_CALL_LOG", "ADD_VOICEMAIL", "USE_SIP", "PROCESS_OUTGOING_CALLS",
	"BODY_SENSORS", "ACTIVITY_RECOGNITION", "SEND_SMS", "RECEIVE_SMS", "READ_SMS",
	"RECEIVE_WAP_PUSH", "RECEIVE_MMS", "READ_EXTERNAL_STORAGE", "WRITE_EXTERNAL_STORAGE",
	"MANAGE_EXTERNAL_STORAGE",
)

var signaturePermissions = prefixed(
	"INSTALL_PACKAGES", "DELETE_PACKAGES", "CHANGE_COMPONENT_ENABLED_STATE", "ACCESS_WIFI_STATE",
	"BATTERY_STATS", "BIND_ACCESSIBILITY_SERVICE", "BIND_AUTOFILL_SERVICE", "BIND_CARRIER_SERVICES",
	"BIND_DEVICE_ADMIN", "BIND_DREAM_SERVICE", "BIND_NOTIFICATION_LISTENER_SERVICE", "BIND_PRINT_SERVICE",
	"BIND_VPN_SERVICE", "BLUETOOTH_PRIVILEGED", "PACKAGE_USAGE_STATS",
)

const (
	locationUsage = `getLastKnownLocation|requestLocationUpdates|FusedLocationProviderClient`
	storageUsage  = `getExternalStorageDirectory|getExternalFilesDir|Environment\.getExternalStoragePublicDirectory`
)

// usagePatterns maps a permission to the API references that exercise it.
var usagePatterns = map[string]string{
	androidPermission + "INTERNET":               `HttpURLConnection|URL\.openConnection|Socket|OkHttp|Retrofit|HttpClient`,
	androidPermission + "ACCESS_FINE_LOCATION":   locationUsage,
	androidPermission + "ACCESS_COARSE_LOCATION": locationUsage,
	androidPermission + "CAMERA":                 `Camera\.|CameraManager|CameraDevice|cameraCaptureSessions`,
	androidPermission + "READ_CONTACTS":          `ContactsContract|getContentResolver\(\)\.query\([^)]*Contacts`,
	androidPermission + "WRITE_CONTACTS":         `ContactsContract|getContentResolver\(\)\.insert\([^)]*Contacts`,
	androidPermission + "READ_EXTERNAL_STORAGE":  storageUsage,
	androidPermission + "WRITE_EXTERNAL_STORAGE": storageUsage,
	androidPermission + "RECORD_AUDIO":           `AudioRecord|MediaRecorder\.setAudioSource|startRecording`,
	androidPermission + "SEND_SMS":               `SmsManager\.send`,
	androidPermission + "READ_SMS":               `getContentResolver\(\)\.query\([^)]*sms`,
	androidPermission + "RECEIVE_SMS":            `android\.provider\.Telephony\.SMS_RECEIVED`,
	androidPermission + "READ_PHONE_STATE":       `TelephonyManager|getDeviceId|getImei|getLine1Number|getSubscriberId`,
	androidPermission + "CALL_PHONE":             `ACTION_CALL|Intent\([^)]*tel:`,
	androidPermission + "READ_CALENDAR":          `CalendarContract|getContentResolver\(\)\.query\([^)]*Calendar`,
	androidPermission + "WRITE_CALENDAR":         `CalendarContract|getContentResolver\(\)\.insert\([^)]*Calendar`,
}

func prefixed(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[androidPermission+n] = true
	}
	return m
}

// ClassifyPermission places a declared permission into its protection
// class. Custom declarations win over the built-in tables.
func ClassifyPermission(name string, custom bool) PermissionClass {
	switch {
	case custom:
		return ClassCustom
	case dangerousPermissions[name]:
		return ClassDangerous
	case signaturePermissions[name]:
		return ClassSignature
	default:
		return ClassNormal
	}
}

// UsagePattern returns the compiled usage pattern for a permission and
// whether one exists.
func UsagePattern(name string) (*regexp.Regexp, bool) {
	p, ok := usagePatterns[name]
	if !ok {
		return nil, false
	}
	return ci(p), true
}

// ShortPermissionName strips the package prefix: the last dot-separated
// segment is returned.
func ShortPermissionName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
