package entities

// ContactRecord is one entry of the static contact directory.
type ContactRecord struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Keywords []string // lowercase tokens that select this contact
}

// ContactDirectory holds the two known contacts.
type ContactDirectory struct {
	Founder        ContactRecord
	GeneralManager ContactRecord
}
