package web

import (
	"strconv"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/mmynk/billbook/internal/calculator"
	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/service"
)

type groupForm struct {
	Name        string
	Description string
	Error       string
}

type billForm struct {
	Description string
	Date        string
	Amount      string
	Error       string
}

func groupsPage(groups []*models.Group, form groupForm) Node {
	var list Node
	if len(groups) == 0 {
		list = P(Class("muted"), Text("No groups yet."))
	} else {
		items := make([]Node, 0, len(groups))
		for _, g := range groups {
			items = append(items, Li(
				A(Href("/groups/"+g.ID+"/bills"), Text(g.Name)),
				If(g.Description != "", Span(Class("muted"), Text(" "+g.Description))),
			))
		}
		list = Ul(Group(items))
	}

	return layout("Groups", true,
		Div(Class("card"), list),
		Div(Class("card"),
			H2(Text("New group")),
			messages(form.Error, ""),
			Form(Class("stack"), Method("post"), Action("/groups"),
				field("Name", "name", "text", form.Name, Required()),
				Label(Attr("for", "description"), Text("Description")),
				Textarea(ID("description"), Name("description"), Rows("2"), Text(form.Description)),
				Button(Type("submit"), Text("Create group")),
			),
		),
	)
}

func billsPage(ledger *service.GroupLedger, form billForm) Node {
	group := ledger.Group

	var table Node
	if len(ledger.Bills) == 0 {
		table = P(Class("muted"), Text("No bills yet."))
	} else {
		rows := make([]Node, 0, len(ledger.Bills))
		for _, b := range ledger.Bills {
			rows = append(rows, Tr(
				Td(Text(b.DateString())),
				Td(Text(b.Description)),
				Td(Class("amount"), Text(b.AmountString())),
			))
		}
		table = Table(
			THead(Tr(
				Th(Text("Date")),
				Th(Text("Description")),
				Th(Class("amount"), Text("Amount")),
			)),
			TBody(Group(rows)),
		)
	}

	return layout(group.Name, true,
		If(group.Description != "", P(Class("muted"), Text(group.Description))),
		Div(Class("card"), table),
		If(ledger.Summary.Count > 0, summaryCard(ledger.Summary)),
		Div(Class("card"),
			H2(Text("Add bill")),
			messages(form.Error, ""),
			Form(Class("stack"), Method("post"), Action("/groups/"+group.ID+"/bills"),
				field("Description", "description", "text", form.Description, Required()),
				field("Date", "date", "date", form.Date, Required()),
				field("Amount", "amount", "text", form.Amount, Required(), Attr("inputmode", "decimal"), Placeholder("0.00")),
				Button(Type("submit"), Text("Add bill")),
			),
		),
		P(A(Href("/groups"), Text("All groups"))),
	)
}

func summaryCard(s calculator.Summary) Node {
	months := make([]Node, 0, len(s.Months))
	for _, m := range s.Months {
		months = append(months, Tr(
			Td(Text(m.Month)),
			Td(Text(strconv.Itoa(m.Count))),
			Td(Class("amount"), Text(m.Total.StringFixed(2))),
		))
	}

	return Div(Class("card"),
		H2(Text("Summary")),
		P(
			Text(strconv.Itoa(s.Count)+" bills, total "),
			Strong(Text(s.Total.StringFixed(2))),
			Text(", average "+s.Average.StringFixed(2)),
		),
		Table(
			THead(Tr(
				Th(Text("Month")),
				Th(Text("Bills")),
				Th(Class("amount"), Text("Total")),
			)),
			TBody(Group(months)),
		),
	)
}
