// Package actions maps gestures onto what the job board does with them and
// the feedback a client should give the user (vibration and a spoken
// announcement).
package actions

import (
	"fmt"
	"strings"

	"github.com/inklusif-kerja/gesturecli/gestures"
)

type Language string

const (
	LanguageIndonesian Language = "id"
	LanguageEnglish    Language = "en"

	DefaultLanguage = LanguageIndonesian
)

// ParseLanguage accepts "id" or "en" in any case; empty means the default
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultLanguage, nil
	case LanguageIndonesian:
		return LanguageIndonesian, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("unsupported language '%s', expected 'id' or 'en'", s)
}

// Action is what a gesture means on a job listing
type Action struct {
	Gesture      gestures.Kind `json:"gesture"`
	Name         string        `json:"action"`
	Announcement string        `json:"announcement"`
	// Vibration alternates on/off durations in milliseconds
	Vibration []int `json:"vibration"`
}

type binding struct {
	name         string
	vibration    []int
	announcement map[Language]string
}

var bindings = map[gestures.Kind]binding{
	gestures.KindFlickRight: {
		name:      "apply",
		vibration: []int{50, 50, 50},
		announcement: map[Language]string{
			LanguageIndonesian: "Lamaran dikirim",
			LanguageEnglish:    "Application sent",
		},
	},
	gestures.KindFlickLeft: {
		name:      "dismiss",
		vibration: []int{100},
		announcement: map[Language]string{
			LanguageIndonesian: "Lowongan dilewati",
			LanguageEnglish:    "Job skipped",
		},
	},
	gestures.KindLongPress: {
		name:      "save",
		vibration: []int{200},
		announcement: map[Language]string{
			LanguageIndonesian: "Lowongan disimpan",
			LanguageEnglish:    "Job saved",
		},
	},
	gestures.KindDoubleTap: {
		name:      "open",
		vibration: []int{30, 30, 30},
		announcement: map[Language]string{
			LanguageIndonesian: "Membuka detail lowongan",
			LanguageEnglish:    "Opening job details",
		},
	},
	gestures.KindSwipeUp: {
		name:      "next",
		vibration: []int{30},
		announcement: map[Language]string{
			LanguageIndonesian: "Lowongan berikutnya",
			LanguageEnglish:    "Next job",
		},
	},
	gestures.KindSwipeDown: {
		name:      "previous",
		vibration: []int{30},
		announcement: map[Language]string{
			LanguageIndonesian: "Lowongan sebelumnya",
			LanguageEnglish:    "Previous job",
		},
	},
}

// For returns the action bound to kind. ok is false for KindNone and
// unknown kinds.
func For(kind gestures.Kind, lang Language) (Action, bool) {
	b, ok := bindings[kind]
	if !ok {
		return Action{}, false
	}

	text, ok := b.announcement[lang]
	if !ok {
		text = b.announcement[DefaultLanguage]
	}

	vibration := make([]int, len(b.vibration))
	copy(vibration, b.vibration)

	return Action{
		Gesture:      kind,
		Name:         b.name,
		Announcement: text,
		Vibration:    vibration,
	}, true
}

// All lists every binding in gestures.AllKinds order
func All(lang Language) []Action {
	list := make([]Action, 0, len(gestures.AllKinds))
	for _, kind := range gestures.AllKinds {
		if action, ok := For(kind, lang); ok {
			list = append(list, action)
		}
	}
	return list
}
