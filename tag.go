package fieldmap

import (
	"reflect"
	"strings"
)

const (
	//SetMarkerTag defines set marker tag
	SetMarkerTag = "setMarker"

	//PresenceMarkerTag defines alternative set marker tag
	PresenceMarkerTag = "presenceMarker"

	legacyTagFragment = "presence=true"
)

//IsSetMarker returns true if struct tag declares presence marker holder
func IsSetMarker(tag reflect.StructTag) bool {
	if _, ok := tag.Lookup(SetMarkerTag); ok {
		return true
	}
	if _, ok := tag.Lookup(PresenceMarkerTag); ok {
		return true
	}
	return strings.Contains(string(tag), legacyTagFragment)
}
