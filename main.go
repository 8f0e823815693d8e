package main

import "github.com/droidaudit/droidaudit/cmd/droidaudit"

func main() { droidaudit.Execute() }
