package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/d697/bdobot/bdo"
	"github.com/d697/bdobot/db"
	"github.com/d697/bdobot/items"
	"github.com/d697/bdobot/lookup"
	"github.com/d697/bdobot/market"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const getIDMatches = 10

var (
	RegisterCommand = discord.SlashCommandCreate{
		Name:        "register",
		Description: "Register your BDO info",
		Contexts:    everywhere,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "region",
				Description: "The region you play in",
				Required:    true,
				Choices:     regionChoices(),
			},
			discord.ApplicationCommandOptionBool{
				Name:        "value_pack",
				Description: "Whether or not you are using a value pack",
				Required:    true,
			},
			discord.ApplicationCommandOptionInt{
				Name:        "family_fame",
				Description: "The amount of family fame you have",
				Required:    true,
				MinValue:    ptr(0),
			},
			discord.ApplicationCommandOptionBool{
				Name:        "merchant_ring",
				Description: "Whether or not you have the rich merchant's ring",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "crons",
				Description: "The source (and therefore price) of your cron stones",
				Required:    true,
				Choices:     cronChoices(),
			},
		},
	}

	PriceCommand = discord.SlashCommandCreate{
		Name:        "price",
		Description: "Look up the market price of an item",
		Contexts:    everywhere,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:         "item",
				Description:  "The item name or ID",
				Required:     true,
				Autocomplete: true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "region",
				Description: "The market to check, defaults to your registered region",
				Required:    false,
				Choices:     regionChoices(),
			},
		},
	}
)

func cronChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(bdo.AllCronCosts))
	for _, c := range bdo.AllCronCosts {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: c.DisplayName(), Value: string(c)})
	}
	return choices
}

func (h *Handlers) HandleRegister(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()

	region, err := market.ParseRegion(data.String("region"))
	if err != nil {
		return sendInteractionError(event, err.Error(), true)
	}
	crons, err := bdo.ParseCronCost(data.String("crons"))
	if err != nil {
		return sendInteractionError(event, err.Error(), true)
	}
	fame := data.Int("family_fame")
	if fame < 0 {
		return sendInteractionError(event, "family fame can't be negative", true)
	}

	user := event.User()
	p := db.Profile{
		DiscordID:    user.ID,
		Region:       region,
		FamilyFame:   int64(fame),
		ValuePack:    data.Bool("value_pack"),
		MerchantRing: data.Bool("merchant_ring"),
		CronCost:     crons.Price(),
	}

	ctx, cancel := h.context()
	defer cancel()
	if err := h.profiles.Upsert(ctx, p); err != nil {
		return sendInteractionError(event, "failed to save your profile, try again later", true)
	}

	slog.Info("registered user", slog.String("user_id", user.ID.String()), slog.String("region", region.String()))
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(registeredEmbed(user, p)).
			Build(),
	)
}

func registeredEmbed(u discord.User, p db.Profile) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("Successfully registered").
		SetThumbnail(avatarURL(u)).
		SetTimestamp(time.Now()).
		SetColor(embedColor).
		AddField("Region:", p.Region.DisplayName(), false).
		AddField("Value Pack:", yesNo(p.ValuePack), false).
		AddField("Family Fame:", strconv.FormatInt(p.FamilyFame, 10), false).
		AddField("Merchant Ring:", yesNo(p.MerchantRing), false).
		AddField("Cron Price:", bdo.FormatSilver(p.CronCost), false).
		Build()
}

func taxText(p db.Profile) string {
	return fmt.Sprintf("You are given %.3f%% of the value of the item.", 100*bdo.TaxRate(p.ValuePack, p.FamilyFame, p.MerchantRing))
}

func profileEmbed(u discord.User, p db.Profile) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitlef("%s's Profile", u.EffectiveName()).
		SetThumbnail(avatarURL(u)).
		SetTimestamp(time.Now()).
		SetColor(embedColor).
		AddField("Region:", p.Region.DisplayName(), false).
		AddField("Value Pack:", yesNo(p.ValuePack), false).
		AddField("Merchant Ring:", yesNo(p.MerchantRing), false).
		AddField("Family Fame:", strconv.FormatInt(p.FamilyFame, 10), false).
		AddField("Cron Cost:", bdo.FormatSilver(p.CronCost), false).
		AddField("Tax:", taxText(p), false).
		Build()
}

func (h *Handlers) HandleProfile(event *handler.CommandEvent) error {
	ctx, cancel := h.context()
	defer cancel()

	user := event.User()
	p, ok, err := h.profiles.Get(ctx, user.ID)
	if err != nil {
		return sendInteractionError(event, "failed to load your profile, try again later", true)
	}
	if !ok {
		return event.CreateMessage(textResponse("Profile not found. Please register using /register first."))
	}
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(profileEmbed(user, p)).
			Build(),
	)
}

// queueFields renders one embed field per queued item, named from the catalog.
func queueFields(catalog *items.Index, queue []market.WaitListItem) []discord.EmbedField {
	fields := make([]discord.EmbedField, 0, len(queue))
	for _, q := range queue {
		name := fmt.Sprintf("Item %d", q.ItemID)
		var category int64
		if it, ok := catalog.Lookup(q.ItemID); ok {
			name, category = it.Name, it.MainCategory
		}
		fields = append(fields, discord.EmbedField{
			Name:   bdo.DisplayName(q.ItemID, category, q.EnhancementLevel, name),
			Value:  fmt.Sprintf("%s\n Live: <t:%d:R>", bdo.FormatSilver(q.Price), q.LiveAt.Unix()),
			Inline: ptr(false),
		})
	}
	return fields
}

// queueEmbeds splits the fields over as many embeds as needed, numbering them when
// there is more than one.
func queueEmbeds(region market.Region, fields []discord.EmbedField, now time.Time) []discord.Embed {
	chunks := chunkFields(fields)
	embeds := make([]discord.Embed, 0, len(chunks))
	for i, chunk := range chunks {
		title := region.DisplayName() + " Registration Queue"
		if len(chunks) > 1 {
			title = fmt.Sprintf("%s Part %d", title, i+1)
		}
		embeds = append(embeds,
			discord.NewEmbedBuilder().
				SetTitle(title).
				SetTimestamp(now).
				SetColor(embedColor).
				SetFields(chunk...).
				Build(),
		)
	}
	return embeds
}

func (h *Handlers) HandleRegistrationQueue(event *handler.CommandEvent) error {
	if err := event.DeferCreateMessage(false); err != nil {
		return err
	}

	ctx, cancel := h.context()
	defer cancel()

	p, ok, err := h.profiles.Get(ctx, event.User().ID)
	if err != nil {
		return updateInteractionError(event, "failed to load your profile, try again later")
	}
	if !ok {
		return updateInteractionError(event, "please register with /register before using this command")
	}

	queue, err := h.market.WaitList(ctx, p.Region)
	if err != nil {
		slog.Warn("failed to get registration queue", slog.Any("err", err), slog.String("region", p.Region.String()))
		return updateInteractionError(event, fmt.Sprintf("the %s market is unavailable right now, try again later", p.Region.DisplayName()))
	}
	if len(queue) == 0 {
		_, err = event.UpdateInteractionResponse(
			discord.NewMessageUpdateBuilder().
				SetContent("No items are currently in the registration queue.").
				Build(),
		)
		return err
	}

	embeds := queueEmbeds(p.Region, queueFields(h.items, queue), time.Now())
	if _, err = event.UpdateInteractionResponse(
		discord.NewMessageUpdateBuilder().
			AddEmbeds(embeds[0]).
			Build(),
	); err != nil {
		return err
	}
	for i, embed := range embeds[1:] {
		_, err := event.Client().Rest().CreateFollowupMessage(
			event.ApplicationID(),
			event.Token(),
			discord.NewMessageCreateBuilder().AddEmbeds(embed).Build(),
		)
		if err != nil {
			return fmt.Errorf("failed to send queue part %d: %w", i+2, err)
		}
	}
	return nil
}

// getIDMessage answers an item ID search, shared by the slash and prefix commands.
func (h *Handlers) getIDMessage(term string) discord.MessageCreate {
	matches := h.items.Match(term, getIDMatches)
	if len(matches) == 0 {
		return textResponse(fmt.Sprintf("No matches found for: %q", term))
	}

	embed := discord.NewEmbedBuilder().
		SetTitlef("Best matches for %q", term).
		SetColor(embedColor).
		SetTimestamp(time.Now())
	for _, it := range matches {
		embed.AddField(it.Name, fmt.Sprintf("Item ID: %d", it.ID), false)
	}
	return discord.NewMessageCreateBuilder().
		AddEmbeds(embed.Build()).
		Build()
}

func (h *Handlers) HandleGetID(event *handler.CommandEvent) error {
	return event.CreateMessage(h.getIDMessage(event.SlashCommandInteractionData().String("search_term")))
}

// resolveItem reads an item option, which is an ID when picked from autocomplete
// and free text otherwise.
func (h *Handlers) resolveItem(value string) (items.Item, bool) {
	value = strings.TrimSpace(value)
	if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
		if it, ok := h.items.Lookup(id); ok {
			return it, true
		}
		return items.Item{ID: id}, true
	}
	matches := h.items.Match(value, 1)
	if len(matches) == 0 {
		return items.Item{}, false
	}
	return matches[0], true
}

func priceEmbed(res lookup.Result, region market.Region, profile *db.Profile) discord.Embed {
	rec := res.Item
	embed := discord.NewEmbedBuilder().
		SetTitle(bdo.DisplayName(rec.ItemID, rec.MainCategory, rec.EnhancementLevel, rec.Name)).
		SetColor(embedColor).
		SetTimestamp(time.Unix(rec.LastUpdateTime, 0)).
		AddField("Region", region.DisplayName(), true).
		AddField("Price", bdo.FormatSilver(rec.BasePrice), true).
		AddField("In stock", bdo.FormatNumber(rec.Count), true).
		AddField("Total trades", bdo.FormatNumber(rec.TotalTradeCount), true)
	if profile != nil {
		rate := bdo.TaxRate(profile.ValuePack, profile.FamilyFame, profile.MerchantRing)
		embed.AddField("After tax", bdo.FormatSilver(bdo.AfterTax(rec.BasePrice, rate)), true)
	}
	embed.AddField("Item ID", strconv.FormatInt(rec.ItemID, 10), true)
	if res.Cached {
		embed.SetFooterText("cached")
	} else {
		embed.SetFooterText("refreshed")
	}
	return embed.Build()
}

func lookupErrorMessage(err error, itemID int64, region market.Region) string {
	switch {
	case errors.Is(err, lookup.ErrItemNotFound):
		return fmt.Sprintf("item %d is not listed on the %s market", itemID, region.DisplayName())
	case errors.Is(err, lookup.ErrUpstreamUnavailable):
		return fmt.Sprintf("the %s market is unavailable right now, try again later", region.DisplayName())
	default:
		return "failed to look up the item, try again later"
	}
}

func (h *Handlers) HandlePrice(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()

	query := data.String("item")
	item, ok := h.resolveItem(query)
	if !ok {
		return sendInteractionError(event, fmt.Sprintf("no item matches %q, try /get_id", query), true)
	}

	var (
		region       = market.RegionEU
		regionForced bool
	)
	if raw, ok := data.OptString("region"); ok && raw != "" {
		r, err := market.ParseRegion(raw)
		if err != nil {
			return sendInteractionError(event, err.Error(), true)
		}
		region, regionForced = r, true
	}

	if err := event.DeferCreateMessage(false); err != nil {
		return err
	}

	ctx, cancel := h.context()
	defer cancel()

	var profile *db.Profile
	p, registered, err := h.profiles.Get(ctx, event.User().ID)
	// a failed profile read is logged by the store, price the default region
	if err == nil && registered {
		profile = &p
		if !regionForced {
			region = p.Region
		}
	}

	res, err := h.lookup.GetOrRefresh(ctx, item.ID, region)
	if err != nil {
		return updateInteractionError(event, lookupErrorMessage(err, item.ID, region))
	}
	if len(res.Warnings) > 0 {
		slog.Debug("price served with warnings", slog.Int("warnings", len(res.Warnings)), slog.Int64("item_id", item.ID))
	}

	_, err = event.UpdateInteractionResponse(
		discord.NewMessageUpdateBuilder().
			AddEmbeds(priceEmbed(res, region, profile)).
			Build(),
	)
	return err
}

// itemChoices suggests catalog items for a partially typed name.
func (h *Handlers) itemChoices(query string) []discord.AutocompleteChoice {
	choices := []discord.AutocompleteChoice{}
	for _, it := range h.items.Match(query, maxAutocomplete) {
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  ellipsisTrim(it.Name, 100),
			Value: strconv.FormatInt(it.ID, 10),
		})
	}
	return choices
}

func (h *Handlers) HandleItemAutocomplete(event *handler.AutocompleteEvent) error {
	return event.AutocompleteResult(h.itemChoices(event.Data.String("item")))
}
