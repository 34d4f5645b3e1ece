package services

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// BundleInfo is the data written to a macOS Info.plist.
type BundleInfo struct {
	AppName        string
	ExecutableName string
	IconFileName   string
	Version        string
	IdentifierBase string // e.g. com.example.
	Signature      string
}

// PlistEntry is one key/string pair of the manifest.
type PlistEntry struct {
	Key   string
	Value string
}

// PlistEntries returns the ten manifest keys in their fixed order.
func PlistEntries(info BundleInfo) []PlistEntry {
	signature := info.Signature
	if signature == "" {
		signature = "????"
	}
	return []PlistEntry{
		{"CFBundleDisplayName", info.AppName},
		{"CFBundleExecutable", info.ExecutableName},
		{"CFBundleName", info.AppName},
		{"CFBundleIdentifier", info.IdentifierBase + strings.ReplaceAll(info.AppName, " ", "")},
		{"CFBundleVersion", info.Version},
		{"CFBundleShortVersionString", info.Version},
		{"CFBundleSignature", signature},
		{"CFBundleIconFile", info.IconFileName},
		{"CFBundlePackageType", "APPL"},
		// needed for correct rendering on retina displays
		{"NSPrincipalClass", info.AppName},
	}
}

// RenderInfoPlist renders Info.plist.
func RenderInfoPlist(info BundleInfo) string {
	var b bytes.Buffer
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<!DOCTYPE plist PUBLIC \"-//Apple Computer//DTD PLIST 1.0//EN\" \"http://www.apple.com/DTDs/PropertyList-1.0.dtd\">\n")
	b.WriteString("<plist version=\"1.0\">\n")
	b.WriteString("\t<dict>\n")
	for _, e := range PlistEntries(info) {
		b.WriteString("\t\t<key>")
		_ = xml.EscapeText(&b, []byte(e.Key))
		b.WriteString("</key>\n")
		b.WriteString("\t\t<string>")
		_ = xml.EscapeText(&b, []byte(e.Value))
		b.WriteString("</string>\n")
	}
	b.WriteString("\t</dict>\n")
	b.WriteString("</plist>\n")
	return b.String()
}
