// Package monitoring holds the process-wide prometheus metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ItemsAdded counts inventory inserts, labeled by how the item entered
	// (user, camera, barcode).
	ItemsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fridgekeep_items_added_total",
		Help: "Inventory items added, by entry method.",
	}, []string{"added_by"})

	// ItemsConsumed counts consume operations, labeled by outcome
	// (updated, deleted).
	ItemsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fridgekeep_items_consumed_total",
		Help: "Consume operations applied, by outcome.",
	}, []string{"outcome"})

	// RecipeRequests counts recipe suggestion requests.
	RecipeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fridgekeep_recipe_requests_total",
		Help: "Recipe suggestion requests served.",
	})
)
