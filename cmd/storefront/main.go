package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/cart"
	"github.com/safar/go-storefront-client/internal/catalog"
	"github.com/safar/go-storefront-client/internal/config"
	"github.com/safar/go-storefront-client/internal/models"
	"github.com/safar/go-storefront-client/internal/session"
)

func main() {
	search := flag.String("search", "", "filter products by name")
	sortKey := flag.String("sort", string(catalog.SortNewest), "sort key: newest, price-low-high, price-high-low")
	discounted := flag.Bool("discounted", false, "show only discounted products")
	byCategory := flag.Bool("by-category", false, "group output by category")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	client, err := api.NewClient(&cfg.API)
	if err != nil {
		log.Fatalf("Create client: %v", err)
	}

	ctx := context.Background()

	sess := session.New(client)
	cartStore := cart.New(client, sess)

	if email := os.Getenv("STOREFRONT_EMAIL"); email != "" {
		if _, err := sess.Login(ctx, email, os.Getenv("STOREFRONT_PASSWORD")); err != nil {
			log.Printf("Login failed: %v", err)
		}
	} else {
		sess.Refresh(ctx)
	}

	products, err := client.Products(ctx)
	if err != nil {
		log.Fatalf("Fetch products: %v", err)
	}

	catalogStore := catalog.NewStore()
	catalogStore.Replace(products)

	query := catalog.DefaultQuery()
	query.Search = *search
	query.Sort = catalog.SortKey(*sortKey)

	set := catalogStore.Products()
	if *discounted {
		set = catalog.Discounted(set)
	}
	view := catalog.View(set, query)

	if *byCategory {
		for _, group := range catalog.GroupByCategory(view) {
			fmt.Println(group.Category)
			for _, p := range group.Products {
				printProduct(p)
			}
		}
	} else {
		for _, p := range view {
			printProduct(p)
		}
	}

	if sess.Authenticated() {
		snapshot, err := cartStore.Fetch(ctx)
		if err != nil {
			log.Fatalf("Fetch cart: %v", err)
		}
		fmt.Printf("\nCart: %d items, total %s\n", len(snapshot.Items), snapshot.Total.StringFixed(2))
	}
}

func printProduct(p models.Product) {
	if p.HasDiscount() {
		fmt.Printf("  %-30s %10s (was %s)\n", p.Name, p.Price.StringFixed(2), p.OriginalPrice().StringFixed(2))
		return
	}
	fmt.Printf("  %-30s %10s\n", p.Name, p.Price.StringFixed(2))
}
