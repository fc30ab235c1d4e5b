// Package mining finds frequent itemsets in transactional data and derives
// association rules from them.
//
// The reference strategy is BruteForce: it enumerates every combination of
// the item universe size by size and counts each candidate against every
// transaction, stopping at the first size where nothing is frequent. It is
// exponential in the size of the universe and serves as the correctness
// oracle for the Apriori and FPGrowth strategies, which must return the same
// itemsets in the same order.
//
// Example usage:
//
//	universe := []string{"Milk", "Bread", "Soda"}
//	txns := []mining.Transaction[string]{
//		mining.NewTransaction("Milk", "Bread"),
//		mining.NewTransaction("Bread", "Soda"),
//	}
//
//	frequent, err := mining.FindFrequentItemsets(universe, txns, mining.Count(1))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := mining.GenerateAssociationRules(mining.Itemsets(frequent), txns, 0.5)
//	if err != nil {
//		log.Fatal(err)
//	}
package mining
