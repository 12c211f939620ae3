package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names understood by the email worker.
const (
	VerifyOTP = "verify_otp"
)

var subjects = map[string]string{
	VerifyOTP: "Your verification code",
}

var texts = map[string]string{
	VerifyOTP: "Hi {{.Name}},\n\nYour verification code is {{.Code}}. It expires in {{.ExpiresMinutes}} minutes.\n\nIf you did not sign up, you can ignore this email.\n",
}

// Render produces subject, text, and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	tt, err := texttpl.New(name).Parse(texts[name])
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	return subject, tb.String(), hb.String(), nil
}
