// Package openfoodfacts implements the product metadata collaborator
// against the Open Food Facts public API.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// Config holds Open Food Facts client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client looks products up by barcode and normalizes the response into
// domain shapes.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates an Open Food Facts client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://world.openfoodfacts.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("openfoodfacts"),
	}
}

type productResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Nutriments  struct {
			EnergyKcal    float64 `json:"energy-kcal_100g"`
			Proteins      float64 `json:"proteins_100g"`
			Carbohydrates float64 `json:"carbohydrates_100g"`
			Sugars        float64 `json:"sugars_100g"`
			Fat           float64 `json:"fat_100g"`
			SaturatedFat  float64 `json:"saturated-fat_100g"`
			Fiber         float64 `json:"fiber_100g"`
			Sodium        float64 `json:"sodium_100g"` // grams
		} `json:"nutriments"`
		Ingredients []struct {
			Text string `json:"text"`
		} `json:"ingredients"`
		IngredientsText string   `json:"ingredients_text"`
		AdditivesTags   []string `json:"additives_tags"`
		AllergensTags   []string `json:"allergens_tags"`
	} `json:"product"`
}

// LookupByBarcode implements outbound.ProductLookup.
func (c *Client) LookupByBarcode(ctx context.Context, barcode string) (*outbound.Product, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json", c.cfg.BaseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: build request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, outbound.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openfoodfacts: unexpected status %d", resp.StatusCode)
	}

	var parsed productResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("openfoodfacts: decode response: %w", err)
	}
	if parsed.Status != 1 {
		return nil, outbound.ErrProductNotFound
	}

	product := &outbound.Product{
		Barcode:     barcode,
		Name:        parsed.Product.ProductName,
		Brand:       parsed.Product.Brands,
		Nutrients:   c.nutrients(parsed),
		Ingredients: c.ingredients(parsed),
		Allergens:   stripTagPrefix(parsed.Product.AllergensTags),
	}

	c.logger.Debug("product resolved",
		zap.String("barcode", barcode),
		zap.String("name", product.Name),
		zap.Int("ingredients", len(product.Ingredients)))
	return product, nil
}

// nutrients maps per-100g nutriment fields into domain facts. Sodium
// arrives in grams and is converted to milligrams.
func (c *Client) nutrients(parsed productResponse) assessment.NutrientFacts {
	n := parsed.Product.Nutriments
	facts := assessment.NutrientFacts{}
	put := func(key assessment.Nutrient, value float64, unit string) {
		if value > 0 {
			facts[key] = assessment.Amount{Value: value, Unit: unit}
		}
	}
	put(assessment.NutrientCalories, n.EnergyKcal, "kcal")
	put(assessment.NutrientProtein, n.Proteins, "g")
	put(assessment.NutrientCarbs, n.Carbohydrates, "g")
	put(assessment.NutrientSugar, n.Sugars, "g")
	put(assessment.NutrientFat, n.Fat, "g")
	put(assessment.NutrientSaturatedFat, n.SaturatedFat, "g")
	put(assessment.NutrientFiber, n.Fiber, "g")
	put(assessment.NutrientSodium, n.Sodium*1000, "mg")
	return facts
}

// ingredients merges the structured ingredient list with additive tags
// so flagged additives are visible even when the free-text declaration
// omits them.
func (c *Client) ingredients(parsed productResponse) assessment.IngredientList {
	var list assessment.IngredientList
	for _, ing := range parsed.Product.Ingredients {
		if strings.TrimSpace(ing.Text) != "" {
			list = append(list, ing.Text)
		}
	}
	if len(list) == 0 && parsed.Product.IngredientsText != "" {
		for _, part := range strings.Split(parsed.Product.IngredientsText, ",") {
			if p := strings.TrimSpace(part); p != "" {
				list = append(list, p)
			}
		}
	}

	seen := make(map[string]bool, len(list))
	for _, ing := range list {
		seen[assessment.NormalizeAdditiveName(ing)] = true
	}
	for _, tag := range stripTagPrefix(parsed.Product.AdditivesTags) {
		if norm := assessment.NormalizeAdditiveName(tag); norm != "" && !seen[norm] {
			list = append(list, norm)
			seen[norm] = true
		}
	}
	return list
}

// stripTagPrefix removes the language prefix from OFF taxonomy tags,
// "en:e211" becomes "e211".
func stripTagPrefix(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if i := strings.Index(tag, ":"); i >= 0 {
			tag = tag[i+1:]
		}
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
