package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notebook/internal/notebook/app"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cat.png", "cat.png"},
		{"My cat.png", "My_cat.png"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{`C:\photos\dog.jpg`, "C_photos_dog.jpg"},
		{"résumé.gif", "resume.gif"},
		{"..hidden.png", "hidden.png"},
		{"we$ird#name!.jpeg", "weirdname.jpeg"},
		{"日本.png", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, app.SanitizeFilename(tt.in))
		})
	}
}

func TestAllowedFile(t *testing.T) {
	for _, name := range []string{"a.png", "a.PNG", "a.jpg", "a.jpeg", "a.gif", "x.tar.gif"} {
		assert.True(t, app.AllowedFile(name), name)
	}
	for _, name := range []string{"a.txt", "png", ".png", "a.", "a.png.exe", ""} {
		assert.False(t, app.AllowedFile(name), name)
	}
}
