package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/places"
	"github.com/google/uuid"
)

const (
	SearchVendorsTool = "search_vendors"
	defaultRadiusKm   = 50
)

// PlaceFinder looks up named places near a point.
type PlaceFinder interface {
	Search(ctx context.Context, q places.Query) ([]places.Place, error)
}

var searchVendorsDef = llm.Tool{
	Type: "function",
	Function: llm.FunctionDef{
		Name:        SearchVendorsTool,
		Description: "Call when the user names a specific real-world wedding vendor (photographer, venue, florist, caterer, etc). Looks the vendor up near the user and adds it to their vendor tracker.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The vendor's name exactly as the user said it.",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Service category, e.g. photographer, venue, florist.",
				},
				"radius_km": map[string]interface{}{
					"type":        "number",
					"description": "Search radius in kilometers.",
					"default":     defaultRadiusKm,
				},
			},
			"required": []string{"query", "category"},
		},
	},
}

type searchVendorsArgs struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	RadiusKm *float64 `json:"radius_km"`
}

// toolRunner resolves tool calls into notices that are appended to the model's text.
type toolRunner struct {
	store  Store
	finder PlaceFinder
	logger *slog.Logger
}

func (r *toolRunner) run(ctx context.Context, userID uuid.UUID, loc *Coordinates, calls []llm.ToolCall) []string {
	var notices []string
	for _, call := range calls {
		if call.Function.Name != SearchVendorsTool {
			r.logger.Warn("unknown tool call ignored", "tool", call.Function.Name)
			metrics.ToolCallsTotal.WithLabelValues("unknown_tool").Inc()
			continue
		}
		notice, result := r.searchVendors(ctx, userID, loc, call.Function.Arguments)
		metrics.ToolCallsTotal.WithLabelValues(result).Inc()
		if notice != "" {
			notices = append(notices, notice)
		}
	}
	return notices
}

func (r *toolRunner) searchVendors(ctx context.Context, userID uuid.UUID, loc *Coordinates, rawArgs string) (notice, result string) {
	var args searchVendorsArgs
	argsErr := json.Unmarshal([]byte(rawArgs), &args)
	args.Query = strings.TrimSpace(args.Query)
	args.Category = strings.TrimSpace(args.Category)

	if loc == nil {
		return locationNotice(args.Query), "no_location"
	}
	if argsErr != nil || args.Query == "" {
		r.logger.Warn("search_vendors called with bad arguments", "action", "chat.tool.search_vendors", "arguments", rawArgs, "error", argsErr)
		return troubleNotice(args.Query), "bad_arguments"
	}

	radius := float64(defaultRadiusKm)
	if args.RadiusKm != nil && *args.RadiusKm > 0 {
		radius = *args.RadiusKm
	}

	found, err := r.finder.Search(ctx, places.Query{
		Name:      args.Query,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		RadiusKm:  radius,
	})
	if err != nil {
		r.logger.Error("vendor lookup failed", "action", "chat.tool.search_vendors", "user_id", userID.String(), "query", args.Query, "error", err)
		return troubleNotice(args.Query), "lookup_error"
	}
	if len(found) == 0 {
		return notFoundNotice(args.Query), "no_results"
	}

	added, err := r.mergeVendors(ctx, userID, args, found)
	if err != nil {
		r.logger.Error("saving looked-up vendors failed", "action", "chat.tool.search_vendors", "user_id", userID.String(), "error", err)
		return fmt.Sprintf("⚠️ I found %s but couldn't save it to your vendor tracker just now. Please try again in a moment.", found[0].Name), "save_error"
	}
	return confirmation(found, added), "found"
}

// mergeVendors inserts the places whose names are not yet tracked for the user and
// reports which names were new.
func (r *toolRunner) mergeVendors(ctx context.Context, userID uuid.UUID, args searchVendorsArgs, found []places.Place) (map[string]bool, error) {
	names := make([]string, 0, len(found))
	for _, p := range found {
		names = append(names, p.Name)
	}
	existing, err := r.store.ExistingVendorNames(ctx, userID, names)
	if err != nil {
		return nil, err
	}

	added := make(map[string]bool)
	var rows []models.Vendor
	for _, p := range found {
		if existing[p.Name] || added[p.Name] {
			continue
		}
		added[p.Name] = true
		rows = append(rows, models.Vendor{
			ID:      uuid.New(),
			UserID:  userID,
			Name:    p.Name,
			Service: serviceFor(args, p),
			Notes:   vendorNotes(p),
		})
	}
	if len(rows) == 0 {
		return added, nil
	}
	if err := r.store.CreateVendors(ctx, rows); err != nil {
		return nil, err
	}
	metrics.VendorsAddedTotal.Add(float64(len(rows)))
	return added, nil
}

func serviceFor(args searchVendorsArgs, p places.Place) string {
	switch {
	case args.Category != "":
		return args.Category
	case p.Type != "":
		return p.Type
	default:
		return args.Query
	}
}

func vendorNotes(p places.Place) string {
	var lines []string
	if p.Address != "" {
		lines = append(lines, "Address: "+p.Address)
	}
	if p.Phone != "" {
		lines = append(lines, "Phone: "+p.Phone)
	}
	if p.Website != "" {
		lines = append(lines, "Website: "+p.Website)
	}
	return strings.Join(lines, "\n")
}

func locationNotice(query string) string {
	if query == "" {
		return "📍 I'd love to look that vendor up, but I need your location to search nearby. Enable location sharing and mention them again!"
	}
	return fmt.Sprintf("📍 I'd love to look up \"%s\" for you, but I need your location to search nearby. Enable location sharing and mention them again!", query)
}

func troubleNotice(query string) string {
	return fmt.Sprintf("⚠️ I had trouble searching for \"%s\" just now. Please try again in a moment.", query)
}

func notFoundNotice(query string) string {
	return fmt.Sprintf("🔍 I couldn't find a match for \"%s\" nearby. You can add them to your vendor tracker by hand anytime.", query)
}

func confirmation(found []places.Place, added map[string]bool) string {
	var b strings.Builder
	if len(found) == 1 {
		p := found[0]
		if added[p.Name] {
			fmt.Fprintf(&b, "✨ I found **%s** and added it to your vendor tracker!", p.Name)
		} else {
			fmt.Fprintf(&b, "✨ I found **%s**. It's already in your vendor tracker.", p.Name)
		}
		writeContactLines(&b, p, "")
		return b.String()
	}

	fmt.Fprintf(&b, "✨ I found %d possible matches and added the new ones to your vendor tracker:", len(found))
	for i, p := range found {
		fmt.Fprintf(&b, "\n%d. **%s**", i+1, p.Name)
		if !added[p.Name] {
			b.WriteString(" (already in your tracker)")
		}
		writeContactLines(&b, p, "   ")
	}
	return b.String()
}

func writeContactLines(b *strings.Builder, p places.Place, indent string) {
	if p.Address != "" {
		fmt.Fprintf(b, "\n%s📍 %s", indent, p.Address)
	}
	if p.Phone != "" {
		fmt.Fprintf(b, "\n%s📞 %s", indent, p.Phone)
	}
	if p.Website != "" {
		fmt.Fprintf(b, "\n%s🌐 %s", indent, p.Website)
	}
}
