package notifications

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the reaction kind an aggregate message describes.
type Action string

const (
	ActionLike    Action = "like"
	ActionComment Action = "comment"
	ActionReply   Action = "reply"
)

func (a Action) verb() string {
	switch a {
	case ActionLike:
		return "liked"
	case ActionComment:
		return "commented on"
	case ActionReply:
		return "replied to"
	}
	return string(a)
}

// Actor is the display identity of a reacting user.
type Actor struct {
	FirstName string
	LastName  string
}

func (a Actor) name() string {
	return a.FirstName + " " + a.LastName
}

// RenderedMessage carries the display string and the authoritative
// distinct-actor count for an aggregate.
type RenderedMessage struct {
	Text  string
	Count int
}

// Render turns the current actor list for one interaction kind into a
// single display string. Actors must be ordered most-recent-first; the
// two most recent are named and the remainder collapses into a count.
// Pure: deterministic, no side effects.
func Render(actors []Actor, action Action) RenderedMessage {
	verb := action.verb()

	switch n := len(actors); {
	case n == 0:
		return RenderedMessage{}
	case n == 1:
		return RenderedMessage{
			Text:  fmt.Sprintf("%s %s your post", actors[0].name(), verb),
			Count: 1,
		}
	case n == 2:
		return RenderedMessage{
			Text:  fmt.Sprintf("%s and %s %s your post", actors[0].name(), actors[1].name(), verb),
			Count: 2,
		}
	default:
		return RenderedMessage{
			Text: fmt.Sprintf("%s, %s %s and %d others %s your post",
				actors[0].name(), actors[1].name(), verb, n-2, verb),
			Count: n,
		}
	}
}

// DistinctMostRecentFirst de-duplicates a chronologically ordered id
// list and returns the distinct ids most-recent-first. A user reacting
// twice counts once; their position is that of their latest reaction.
func DistinctMostRecentFirst(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if seen[ids[i]] {
			continue
		}
		seen[ids[i]] = true
		out = append(out, ids[i])
	}
	return out
}
