// Seeds a demo dataset so every report has something to show: six months
// of salary and household spend, budgets for the current month, an item
// and tax catalog, a grocery purchase history with a repeating cadence,
// and savings goals.
//
// Point it at Firestore with GOOGLE_CLOUD_PROJECT, or run it against a
// local backend's project emulator. USER_ID defaults to the local dev user.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/store"
)

func main() {
	ctx := context.Background()

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		log.Fatal("GOOGLE_CLOUD_PROJECT is required")
	}
	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()

	st := store.NewFirestoreStore(client)

	log.Printf("Seeding demo data for user %s in project %s", userID, projectID)

	categories := seedCategories(ctx, st, userID)
	seedTransactions(ctx, st, userID, categories)
	seedBudgets(ctx, st, userID, categories)
	taxes := seedTaxes(ctx, st, userID)
	seedItems(ctx, st, userID, taxes)
	seedPurchases(ctx, st, userID)
	seedGoals(ctx, st, userID)

	log.Println("Done")
}

func seedCategories(ctx context.Context, st store.Store, userID string) map[string]string {
	defs := []struct {
		name      string
		txnType   model.TransactionType
		stability model.StabilityType
	}{
		{"Nómina", model.TransactionTypeIncome, model.StabilityFixed},
		{"Alquiler", model.TransactionTypeExpense, model.StabilityFixed},
		{"Comida", model.TransactionTypeExpense, model.StabilityVariable},
		{"Transporte", model.TransactionTypeExpense, model.StabilityVariable},
		{"Regalos", model.TransactionTypeExpense, model.StabilityOccasional},
	}

	ids := make(map[string]string, len(defs))
	for _, d := range defs {
		cat := &model.Category{
			UserID:        userID,
			Name:          d.name,
			Type:          d.txnType,
			StabilityType: d.stability,
		}
		if err := st.CreateCategory(ctx, cat); err != nil {
			log.Fatalf("Failed to create category %s: %v", d.name, err)
		}
		ids[d.name] = cat.ID
	}
	log.Printf("Created %d categories", len(defs))
	return ids
}

func seedTransactions(ctx context.Context, st store.Store, userID string, categories map[string]string) {
	now := time.Now().UTC()
	count := 0
	for back := 5; back >= 0; back-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)

		rows := []struct {
			category string
			txnType  model.TransactionType
			amount   float64
			day      int
		}{
			{"Nómina", model.TransactionTypeIncome, 2400, 1},
			{"Alquiler", model.TransactionTypeExpense, 950, 2},
			{"Comida", model.TransactionTypeExpense, 380 + float64(back)*15, 8},
			{"Transporte", model.TransactionTypeExpense, 60, 12},
		}
		// An occasional splurge every third month.
		if back%3 == 0 {
			rows = append(rows, struct {
				category string
				txnType  model.TransactionType
				amount   float64
				day      int
			}{"Regalos", model.TransactionTypeExpense, 120, 20})
		}

		for _, row := range rows {
			txn := &model.Transaction{
				UserID:     userID,
				CategoryID: categories[row.category],
				Type:       row.txnType,
				Amount:     row.amount,
				Date:       month.AddDate(0, 0, row.day-1),
			}
			if err := st.CreateTransaction(ctx, txn); err != nil {
				log.Fatalf("Failed to create transaction: %v", err)
			}
			count++
		}
	}
	log.Printf("Created %d transactions", count)
}

func seedBudgets(ctx context.Context, st store.Store, userID string, categories map[string]string) {
	month := time.Now().UTC().Format("2006-01")
	limits := map[string]float64{
		"Alquiler":   950,
		"Comida":     400,
		"Transporte": 80,
	}
	for name, limit := range limits {
		budget := &model.Budget{
			UserID:      userID,
			CategoryID:  categories[name],
			Month:       month,
			LimitAmount: limit,
		}
		if err := st.CreateBudget(ctx, budget); err != nil {
			log.Fatalf("Failed to create budget for %s: %v", name, err)
		}
	}
	log.Printf("Created %d budgets for %s", len(limits), month)
}

func seedTaxes(ctx context.Context, st store.Store, userID string) map[string]string {
	defs := []struct {
		name     string
		rate     float64
		isExempt bool
	}{
		{"IVA general", 21, false},
		{"IVA reducido", 10, false},
		{"Exento", 0, true},
	}

	ids := make(map[string]string, len(defs))
	for _, d := range defs {
		tax := &model.Tax{UserID: userID, Name: d.name, Rate: d.rate, IsExempt: d.isExempt}
		if err := st.CreateTax(ctx, tax); err != nil {
			log.Fatalf("Failed to create tax %s: %v", d.name, err)
		}
		ids[d.name] = tax.ID
	}
	log.Printf("Created %d taxes", len(defs))
	return ids
}

func seedItems(ctx context.Context, st store.Store, userID string, taxes map[string]string) {
	defs := []struct {
		name string
		tax  string
	}{
		{"Detergente", "IVA general"},
		{"Leche", "IVA reducido"},
		{"Café", "IVA reducido"},
		{"Pan", "Exento"},
	}
	for _, d := range defs {
		item := &model.Item{UserID: userID, Name: d.name, TaxID: taxes[d.tax]}
		if err := st.CreateItem(ctx, item); err != nil {
			log.Fatalf("Failed to create item %s: %v", d.name, err)
		}
	}
	log.Printf("Created %d items", len(defs))
}

func seedPurchases(ctx context.Context, st store.Store, userID string) {
	// Read the catalog back so every purchase snapshots the item's real id
	// and its tax record's rate.
	items, err := st.ListItems(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to list items: %v", err)
	}
	taxes, err := st.ListTaxes(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to list taxes: %v", err)
	}
	taxByID := make(map[string]*model.Tax, len(taxes))
	for _, t := range taxes {
		taxByID[t.ID] = t
	}
	itemByName := make(map[string]*model.Item, len(items))
	for _, it := range items {
		itemByName[it.Name] = it
	}

	now := time.Now().UTC()
	cadences := []struct {
		name      string
		stability model.StabilityType
		gap       int
		qty       float64
		unitNet   float64
	}{
		{"Detergente", model.StabilityVariable, 2, 2, 4.5},
		{"Leche", model.StabilityFixed, 1, 6, 1.1},
		{"Café", model.StabilityVariable, 1, 1, 8.9},
		{"Pan", model.StabilityFixed, 1, 8, 0.9},
	}

	count := 0
	for _, c := range cadences {
		item := itemByName[c.name]
		if item == nil {
			log.Fatalf("Item %s was not seeded", c.name)
		}
		tax := taxByID[item.TaxID]
		if tax == nil {
			log.Fatalf("Tax for item %s was not seeded", c.name)
		}

		// Walk backwards from the current month at the item's cadence.
		for back := 0; back < 6; back += c.gap {
			month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)
			p := &model.ItemPurchase{
				TransactionID: "seed-" + item.ID + month.Format("2006-01"),
				ItemID:        item.ID,
				ItemName:      item.Name,
				StabilityType: c.stability,
				Date:          month.AddDate(0, 0, 6),
				Quantity:      c.qty,
				UnitPriceNet:  c.unitNet,
				TaxRateUsed:   tax.Rate,
				IsExemptUsed:  tax.IsExempt,
			}
			if err := st.CreateItemPurchase(ctx, userID, p); err != nil {
				log.Fatalf("Failed to create purchase of %s: %v", item.Name, err)
			}
			count++
		}
	}
	log.Printf("Created %d item purchases", count)
}

func seedGoals(ctx context.Context, st store.Store, userID string) {
	goals := []*model.Goal{
		{UserID: userID, Name: "Fondo de emergencia", TargetAmount: 6000, CurrentAmount: 2500},
		{UserID: userID, Name: "Vacaciones", TargetAmount: 1500, CurrentAmount: 400},
	}
	for _, g := range goals {
		if err := st.CreateGoal(ctx, g); err != nil {
			log.Fatalf("Failed to create goal %s: %v", g.Name, err)
		}
	}
	log.Printf("Created %d goals", len(goals))
}
