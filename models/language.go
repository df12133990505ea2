package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

type Language string

const (
	EN Language = "en"
	KO Language = "ko"
	JA Language = "ja"
	ZH Language = "zh"
)

func (l *Language) Scan(value interface{}) error {
	*l = Language(value.(string))
	return nil
}

func (l Language) Value() (string, error) {
	return string(l), nil
}

func (l Language) Emoji() string {
	msg := "?"
	value := strings.ToLower(string(l))
	switch value {
	case "en":
		msg = "🇺🇸"
	case "ko":
		msg = "🇰🇷"
	case "ja":
		msg = "🇯🇵"
	case "zh":
		msg = "🇨🇳"
	}

	return msg
}

func ValidateLanguage(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	matched, _ := regexp.MatchString("^(en|ko|ja|zh)$", string(value))
	return matched
}

func ValidateLanguageRaw(value string) bool {

	matched, _ := regexp.MatchString("^(en|ko|ja|zh)$", value)
	return matched
}
