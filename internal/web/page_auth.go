package web

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type loginForm struct {
	Email  string
	Error  string
	Notice string
}

type registerForm struct {
	Name  string
	Email string
	Error string
}

func loginPage(loggedIn bool, form loginForm) Node {
	return layout("Log in", loggedIn,
		Div(Class("card"),
			messages(form.Error, form.Notice),
			Form(Class("stack"), Method("post"), Action("/login"),
				field("Email", "email", "email", form.Email, Required(), Attr("autocomplete", "email")),
				field("Password", "password", "password", "", Attr("autocomplete", "current-password")),
				Button(Type("submit"), Text("Log in")),
			),
		),
		P(Class("muted"), Text("No account yet? "), A(Href("/register"), Text("Register"))),
	)
}

func registerPage(loggedIn bool, form registerForm) Node {
	return layout("Register", loggedIn,
		Div(Class("card"),
			messages(form.Error, ""),
			Form(Class("stack"), Method("post"), Action("/register"),
				field("Name", "name", "text", form.Name, Required(), Attr("autocomplete", "name")),
				field("Email", "email", "email", form.Email, Required(), Attr("autocomplete", "email")),
				field("Password", "password", "password", "", Required(), Attr("autocomplete", "new-password")),
				field("Confirm password", "password2", "password", "", Required(), Attr("autocomplete", "new-password")),
				Button(Type("submit"), Text("Register")),
			),
		),
		P(Class("muted"), Text("Already registered? "), A(Href("/login"), Text("Log in"))),
	)
}
