package actions

import (
	"testing"

	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
		wantErr  bool
	}{
		{"", LanguageIndonesian, false},
		{"id", LanguageIndonesian, false},
		{"EN", LanguageEnglish, false},
		{" en ", LanguageEnglish, false},
		{"fr", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lang, err := ParseLanguage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lang)
		})
	}
}

func TestFor_Bindings(t *testing.T) {
	tests := []struct {
		kind gestures.Kind
		name string
	}{
		{gestures.KindFlickRight, "apply"},
		{gestures.KindFlickLeft, "dismiss"},
		{gestures.KindLongPress, "save"},
		{gestures.KindDoubleTap, "open"},
		{gestures.KindSwipeUp, "next"},
		{gestures.KindSwipeDown, "previous"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			action, ok := For(tt.kind, LanguageEnglish)
			require.True(t, ok)
			assert.Equal(t, tt.kind, action.Gesture)
			assert.Equal(t, tt.name, action.Name)
			assert.NotEmpty(t, action.Announcement)
			assert.NotEmpty(t, action.Vibration)
		})
	}
}

func TestFor_NoGesture(t *testing.T) {
	_, ok := For(gestures.KindNone, LanguageIndonesian)
	assert.False(t, ok)
}

func TestFor_Languages(t *testing.T) {
	id, ok := For(gestures.KindLongPress, LanguageIndonesian)
	require.True(t, ok)
	en, ok := For(gestures.KindLongPress, LanguageEnglish)
	require.True(t, ok)

	assert.Equal(t, "Lowongan disimpan", id.Announcement)
	assert.Equal(t, "Job saved", en.Announcement)

	// unknown languages fall back to the default
	fallback, ok := For(gestures.KindLongPress, Language("xx"))
	require.True(t, ok)
	assert.Equal(t, id.Announcement, fallback.Announcement)
}

func TestFor_VibrationIsCopied(t *testing.T) {
	first, _ := For(gestures.KindFlickRight, LanguageEnglish)
	first.Vibration[0] = 9999

	second, _ := For(gestures.KindFlickRight, LanguageEnglish)
	assert.Equal(t, 50, second.Vibration[0])
}

func TestAll(t *testing.T) {
	list := All(LanguageEnglish)
	require.Len(t, list, len(gestures.AllKinds))
	for i, kind := range gestures.AllKinds {
		assert.Equal(t, kind, list[i].Gesture)
	}
}
