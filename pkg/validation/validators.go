package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxSkillTokenLength bounds a single skill or requirement string.
const MaxSkillTokenLength = 100

// RegisterValidators registers custom validators to the validator instance.
// maxTopN caps the top_n tag; zero means unbounded.
func RegisterValidators(v *validator.Validate, maxTopN int) {
	_ = v.RegisterValidation("skill_token", SkillToken)
	_ = v.RegisterValidation("top_n", TopN(maxTopN))
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// New returns a validator with the custom tags registered.
func New(maxTopN int) *validator.Validate {
	v := validator.New()
	RegisterValidators(v, maxTopN)
	return v
}

// SkillToken accepts a non-blank skill without control characters.
func SkillToken(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" || utf8.RuneCountInString(val) > MaxSkillTokenLength {
		return false
	}
	for _, r := range val {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// TopN accepts zero (use the default) or a value in [1, max].
func TopN(max int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		if n < 0 {
			return false
		}
		return max <= 0 || n <= int64(max)
	}
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false // Supplementary characters (mostly emoji/symbols)
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}
