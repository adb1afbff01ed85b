package database

type Tag struct {
	Name  string // spelling used on the alphabetically first page tag row
	Slug  string
	Count int
}
