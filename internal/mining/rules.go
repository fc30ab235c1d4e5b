package mining

import "github.com/sirupsen/logrus"

// RuleStats summarizes one rule generation pass.
type RuleStats struct {
	Candidates int // antecedent/consequent splits examined
	Emitted    int
	Skipped    int // splits whose antecedent never occurs
}

// Rules splits each itemset of two or more items into every non-empty
// antecedent and its complement, and keeps the splits whose confidence
// reaches minConfidence. Supports are recounted over the engine's
// transactions, so antecedents need not appear in frequent.
//
// A split whose antecedent has zero support has no defined confidence and
// is skipped.
func (e *Engine[T]) Rules(frequent []Itemset[T], minConfidence float64) ([]Rule[T], RuleStats, error) {
	var stats RuleStats
	if err := ValidateConfidence(minConfidence); err != nil {
		return nil, stats, err
	}

	rules := []Rule[T]{}
	for _, itemset := range frequent {
		itemset = dedupe(itemset)
		if len(itemset) < 2 {
			continue
		}

		support := e.counter.Support(itemset)
		for i := 1; i < len(itemset); i++ {
			forEachCombination(len(itemset), i, func(idx []int) {
				stats.Candidates++
				antecedent := pick(itemset, idx)

				anteSupport := e.counter.Support(antecedent)
				if anteSupport == 0 {
					stats.Skipped++
					e.log.WithField("antecedent", antecedent).Debug("skipping rule with unsupported antecedent")
					return
				}

				confidence := float64(support) / float64(anteSupport)
				if confidence < minConfidence {
					return
				}

				rules = append(rules, Rule[T]{
					Antecedent:        antecedent,
					Consequent:        itemset.Without(antecedent),
					Support:           support,
					AntecedentSupport: anteSupport,
					Confidence:        confidence,
				})
				stats.Emitted++
			})
		}
	}

	e.log.WithFields(logrus.Fields{
		"itemsets":   len(frequent),
		"candidates": stats.Candidates,
		"emitted":    stats.Emitted,
		"skipped":    stats.Skipped,
	}).Debug("generated rules")

	return rules, stats, nil
}

// GenerateAssociationRules derives the rules of frequent whose confidence
// over transactions reaches minConfidence.
func GenerateAssociationRules[T comparable](frequent []Itemset[T], transactions []Transaction[T], minConfidence float64) ([]Rule[T], error) {
	e, err := NewEngine(transactions)
	if err != nil {
		return nil, err
	}
	rules, _, err := e.Rules(frequent, minConfidence)
	return rules, err
}
