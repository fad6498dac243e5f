package domain

var Tables = []interface{}{
	&Product{},
	&Sale{},
	&Expense{},
}
