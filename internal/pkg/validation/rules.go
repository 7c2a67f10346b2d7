package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// CourseCodePattern accepts catalog codes such as "BCM0504-15" and
	// short codes of courses taken elsewhere
	CourseCodePattern = `^[A-Za-z0-9][A-Za-z0-9._-]*$`

	// CourseCodeMaxLength bounds the length of a course code
	CourseCodeMaxLength = 32
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseCode *regexp.Regexp
}{
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsCourseCode reports whether code is a well-formed course code
func IsCourseCode(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && len(code) <= CourseCodeMaxLength && CompiledPatterns.CourseCode.MatchString(code)
}

// Register adds the custom binding tags to gin's validator. It must run
// before any request that uses the "coursecode" tag is bound.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		return IsCourseCode(fl.Field().String())
	})
}
