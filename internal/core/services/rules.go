package services

import (
	"github.com/samber/lo"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// Rule decides whether giver may give to receiver. Rules must be pure.
type Rule func(giver, receiver domain.Participant) bool

// NotSelf forbids a participant giving to themselves (by name, case-insensitive).
func NotSelf(giver, receiver domain.Participant) bool {
	return !giver.SameAs(receiver)
}

// NotSpouses forbids pairing spouses. Either side naming the other is enough,
// since the roster may record the relationship on one side only.
func NotSpouses(giver, receiver domain.Participant) bool {
	return !giver.IsSpouseOf(receiver) && !receiver.IsSpouseOf(giver)
}

// NotExcluded forbids pairs where either side lists the other in Exclude.
func NotExcluded(giver, receiver domain.Participant) bool {
	return !giver.Excludes(receiver) && !receiver.Excludes(giver)
}

// All combines rules; the pair must satisfy every one.
func All(rules ...Rule) Rule {
	return func(giver, receiver domain.Participant) bool {
		return lo.EveryBy(rules, func(rule Rule) bool {
			return rule(giver, receiver)
		})
	}
}

// NotPreviousReceiver forbids each giver from drawing the receiver they had
// in previous. Givers absent from previous are unconstrained.
func NotPreviousReceiver(previous domain.Pairing) Rule {
	last := lo.SliceToMap(previous, func(pair domain.Pair) (string, string) {
		return pair.Giver.Key(), pair.Receiver.Key()
	})
	return func(giver, receiver domain.Participant) bool {
		prev, ok := last[giver.Key()]
		return !ok || prev != receiver.Key()
	}
}

// DefaultRule is the eligibility rule used when none is supplied.
var DefaultRule = All(NotSelf, NotSpouses, NotExcluded)

// IsEligible reports whether giver may give to receiver under DefaultRule.
func IsEligible(giver, receiver domain.Participant) bool {
	return DefaultRule(giver, receiver)
}
