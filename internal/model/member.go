package model

// Member identifies a household member. The set is fixed: dinners are a
// family affair, not a user system.
type Member string

const (
	MemberMum   Member = "Mum"
	MemberDad   Member = "Dad"
	MemberJade  Member = "Jade"
	MemberLewis Member = "Lewis"
)

// Members lists every household member in display order.
func Members() []Member {
	return []Member{MemberMum, MemberDad, MemberJade, MemberLewis}
}

// Parents lists the members seeded as default attendance when a dinner is
// first created.
func Parents() []Member {
	return []Member{MemberMum, MemberDad}
}

// Valid reports whether m is one of the known household members.
func (m Member) Valid() bool {
	switch m {
	case MemberMum, MemberDad, MemberJade, MemberLewis:
		return true
	}
	return false
}
