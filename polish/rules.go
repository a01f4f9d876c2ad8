package polish

import (
	"context"

	"github.com/kbukum/voicekit/store"
)

// StoreRules reads commands and snippets from the store.
type StoreRules struct {
	Store *store.Store
}

var _ RuleSource = StoreRules{}

// Commands returns the user's active commands as rules.
func (s StoreRules) Commands(ctx context.Context, userID uint) ([]Rule, error) {
	rows, err := s.Store.Commands.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	rules := make([]Rule, len(rows))
	for i, c := range rows {
		rules[i] = Rule{Trigger: c.TriggerPhrase, Replacement: c.ReplacementText}
	}
	return rules, nil
}

// Snippets returns the user's active snippets as rules.
func (s StoreRules) Snippets(ctx context.Context, userID uint) ([]Rule, error) {
	rows, err := s.Store.Snippets.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	rules := make([]Rule, len(rows))
	for i, sn := range rows {
		rules[i] = Rule{Trigger: sn.TriggerPhrase, Replacement: sn.ExpansionText}
	}
	return rules, nil
}
