// Package nav funnels every navigation intent into the page-turn controller.
package nav

import (
	"fmt"
	"strings"
)

// Intent is a parameterless navigation request.
type Intent int

const (
	// Advance turns to the next page.
	Advance Intent = iota + 1
	// Retreat turns back to the previous page.
	Retreat
)

func (i Intent) String() string {
	switch i {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// ParseIntent parses the names accepted from UI controls.
func ParseIntent(s string) (Intent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "advance", "next", "forward":
		return Advance, nil
	case "retreat", "prev", "previous", "back", "backward":
		return Retreat, nil
	default:
		return 0, fmt.Errorf("unknown intent %q", s)
	}
}

// KeyIntent maps the two reserved navigation keys to their intents.
func KeyIntent(key string) (Intent, bool) {
	switch key {
	case "ArrowRight", "Right":
		return Advance, true
	case "ArrowLeft", "Left":
		return Retreat, true
	default:
		return 0, false
	}
}

// Source identifies where an intent came from.
type Source string

// Intent sources.
const (
	SourceButton  Source = "button"
	SourceKey     Source = "key"
	SourceGesture Source = "gesture"
	SourceTray    Source = "tray"
	SourceHTTP    Source = "http"
)

// Request is an intent tagged with its source.
type Request struct {
	Intent Intent
	Source Source
}
