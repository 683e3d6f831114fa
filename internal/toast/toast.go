// Package toast picks the cheeky one-liner shown when someone toggles
// their dinner attendance.
package toast

import (
	"math/rand"

	"whosfordinner/internal/model"
)

type key struct {
	member    model.Member
	attending bool
}

// Dad toggles quietly; nobody has written his material yet.
var messages = map[key][]string{
	{model.MemberJade, true}: {
		"Jade's in! Dinner just got better.",
		"Jade's coming! The table wins.",
		"Jade said yes! 🎉",
	},
	{model.MemberJade, false}: {
		"Jade bailed. We'll eat their share.",
		"Jade's out. More for us.",
		"Jade can't make it. Their loss.",
	},
	{model.MemberLewis, true}: {
		"Lewis is coming! Table's complete.",
		"Lewis is in! Nice one.",
		"Lewis will be there! 👍",
	},
	{model.MemberLewis, false}: {
		"Lewis is out. More for us.",
		"Lewis bailed. Extra portions!",
		"Lewis can't make it. We'll save some.",
	},
	{model.MemberMum, true}: {
		"Thank god, we're saved.",
		"Mum's back. Crisis averted.",
		"We're saved!",
	},
	{model.MemberMum, false}: {
		"We're screwed, who's cooking?",
		"Take away time.",
		"Who's burning dinner then?",
		"RIP dinner plans.",
		"Cereal for dinner?",
	},
}

// Pick returns a random message for the member's new attendance state.
// ok is false when the member has no message set.
func Pick(member model.Member, attending bool) (msg string, ok bool) {
	set, ok := messages[key{member, attending}]
	if !ok {
		return "", false
	}
	return set[rand.Intn(len(set))], true
}
