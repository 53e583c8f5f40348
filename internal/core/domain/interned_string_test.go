package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/press/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("hello")
	is2 := domain.NewInternedString("hello")

	assert.Equal(t, is1, is2)
	assert.Equal(t, "hello", is1.String())
	assert.False(t, is1.IsZero())
	assert.True(t, domain.InternedString{}.IsZero())
}

func TestInternedStrings_RoundTrip(t *testing.T) {
	in := []string{"src/*.html", "src/components/*.html"}
	assert.Equal(t, in, domain.Strings(domain.NewInternedStrings(in)))
}

func TestFatal(t *testing.T) {
	assert.NoError(t, domain.Fatal(nil))

	err := domain.Fatal(assert.AnError)
	assert.True(t, domain.IsFatal(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, domain.IsFatal(assert.AnError))
}

func TestSite_Paths(t *testing.T) {
	site := &domain.Site{
		Source: "src",
		Output: "build",
		Tools:  map[string]string{"sass": "/opt/sass/sass"},
	}

	assert.Equal(t, "src/scss/**/*.scss", site.SourcePath("scss", "**/*.scss"))
	assert.Equal(t, "build/css", site.OutputPath("css"))
	assert.Equal(t, "/opt/sass/sass", site.Tool("sass"))
	assert.Equal(t, "cwebp", site.Tool("cwebp"))
}

func TestStepOptions_Tool(t *testing.T) {
	opts := domain.StepOptions{Tools: map[string]string{"optipng": "/usr/local/bin/optipng", "cwebp": ""}}

	assert.Equal(t, "/usr/local/bin/optipng", opts.Tool("optipng"))
	assert.Equal(t, "cwebp", opts.Tool("cwebp"))
	assert.Equal(t, "jpegtran", opts.Tool("jpegtran"))
}

func TestStep_Patterns(t *testing.T) {
	step := &domain.Step{Inputs: domain.NewInternedStrings([]string{"src/*.html"})}
	assert.Equal(t, []string{"src/*.html"}, step.Patterns())
}
