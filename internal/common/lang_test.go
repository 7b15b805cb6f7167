package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{
		"":                          LanguageZH,
		"zh":                        LanguageZH,
		"zh-CN":                     LanguageZH,
		"zh-Hans-CN,zh;q=0.9":       LanguageZH,
		"en":                        LanguageEN,
		"en-US,en;q=0.9,zh;q=0.8":   LanguageEN,
		"en-GB":                     LanguageEN,
		"not a language tag at all": LanguageZH,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLanguage(in), in)
	}
}

func TestLanguagePick(t *testing.T) {
	assert.Equal(t, "晴", LanguageZH.Pick("晴", "Clear"))
	assert.Equal(t, "Clear", LanguageEN.Pick("晴", "Clear"))
	assert.True(t, DefaultLanguage.IsZH())
}
