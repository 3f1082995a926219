package echoapi

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/user"
)

type welcomeData struct {
	AppName string
	User    user.User
}

var (
	welcomeText = texttmpl.Must(texttmpl.New("welcome.txt").Option("missingkey=error").Parse(
		`Hi {{.User.Name}},

Your {{.AppName}} {{.User.Role}} account is ready. Log in with {{.User.Email}}.
`))

	welcomeHTML = htmltmpl.Must(htmltmpl.New("welcome.gohtml").Option("missingkey=error").Parse(
		`<p>Hi {{.User.Name}},</p>
<p>Your {{.AppName}} {{.User.Role}} account is ready. Log in with <b>{{.User.Email}}</b>.</p>
`))
)

func newWelcomeMessage(usr user.User, appName string) (*core.EmailMessage, error) {
	data := welcomeData{AppName: appName, User: usr}

	var text, html bytes.Buffer
	if err := welcomeText.Execute(&text, data); err != nil {
		return nil, errors.Wrap(err, "rendering text")
	}
	if err := welcomeHTML.Execute(&html, data); err != nil {
		return nil, errors.Wrap(err, "rendering html")
	}
	return &core.EmailMessage{
		To:          []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:     "Welcome",
		TextContent: text.String(),
		HTMLContent: html.String(),
	}, nil
}
