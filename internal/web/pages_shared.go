package web

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; color: #1f2328; background: #f6f8fa; }
header { background: #24292f; color: #fff; padding: 0.75rem 1.5rem; display: flex; gap: 1rem; align-items: center; }
header a { color: #fff; text-decoration: none; }
header .brand { font-weight: 600; margin-right: auto; }
main { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
.card { background: #fff; border: 1px solid #d0d7de; border-radius: 6px; padding: 1rem 1.25rem; margin-bottom: 1.5rem; }
form.stack { display: grid; gap: 0.5rem; max-width: 24rem; }
label { font-weight: 500; }
input, textarea { font: inherit; padding: 0.4rem 0.5rem; border: 1px solid #d0d7de; border-radius: 6px; }
button { font: inherit; padding: 0.45rem 1rem; border: 0; border-radius: 6px; background: #1f883d; color: #fff; cursor: pointer; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 0.4rem 0.5rem; border-bottom: 1px solid #d0d7de; }
td.amount, th.amount { text-align: right; font-variant-numeric: tabular-nums; }
.error { color: #cf222e; }
.notice { color: #1a7f37; }
.muted { color: #656d76; }
`

func layout(title string, loggedIn bool, body ...Node) Node {
	var nav Node
	if loggedIn {
		nav = Group([]Node{
			A(Href("/groups"), Text("Groups")),
			A(Href("/logout"), Text("Log out")),
		})
	} else {
		nav = Group([]Node{
			A(Href("/login"), Text("Log in")),
			A(Href("/register"), Text("Register")),
		})
	}

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(title+" | Billbook")),
				StyleEl(Raw(stylesheet)),
			),
			Body(
				Header(
					A(Class("brand"), Href("/"), Text("Billbook")),
					nav,
				),
				Main(
					H1(Text(title)),
					Group(body),
				),
			),
		),
	)
}

func errorPage(loggedIn bool, title, message string) Node {
	home := "/login"
	if loggedIn {
		home = "/groups"
	}
	return layout(title, loggedIn,
		Div(Class("card"),
			P(Text(message)),
			P(A(Href(home), Text("Back"))),
		),
	)
}

// messages renders the inline error and notice of a form, when set.
func messages(errMsg, notice string) Node {
	return Group([]Node{
		If(errMsg != "", P(Class("error"), Attr("role", "alert"), Text(errMsg))),
		If(notice != "", P(Class("notice"), Text(notice))),
	})
}

func field(label, name, inputType, value string, extra ...Node) Node {
	return Group([]Node{
		Label(Attr("for", name), Text(label)),
		Input(append([]Node{ID(name), Name(name), Type(inputType), Value(value)}, extra...)...),
	})
}
