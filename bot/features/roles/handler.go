package roles

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/events"
	"wanksy/models"
	"wanksy/service"
)

func (f *Feature) handleUpdateRoles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var teamChoice string
	// Whitelist defaults to the configured minimum when the option is omitted
	wl := f.settings.WLMinimum()
	var ml, freemint int64

	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "team":
			teamChoice = opt.StringValue()
		case "whitelist":
			wl = opt.IntValue()
		case "moolalist":
			ml = opt.IntValue()
		case "freemint":
			freemint = opt.IntValue()
		}
	}

	team := models.Team(teamChoice)
	if !team.IsValid() {
		common.RespondWithError(s, i, fmt.Sprintf("Unknown team %q", teamChoice))
		return
	}
	if wl < 0 || ml < 0 || freemint < 0 {
		common.RespondWithError(s, i, "Thresholds must not be negative")
		return
	}

	members, err := f.reconciler.TeamMembers(ctx, team)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load team members for reconciliation"), false)
		return
	}

	input := service.ReconcileInput{
		Members: members,
		Thresholds: service.RoleThresholds{
			Whitelist: wl,
			Moolalist: ml,
			FreeMint:  freemint,
		},
		DryRun: true,
	}

	preview, err := f.reconciler.Reconcile(ctx, input)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "dry-run reconciliation failed"), false)
		return
	}

	sessionID := createReconcileSession(i.Member.User.ID, team, input)

	embed := buildDryRunEmbed(team, input.Thresholds, len(members), preview)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: buildConfirmButtons(sessionID),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error responding to updateroles command: %v", err)
	}
}

func (f *Feature) handleConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) {
	session := getReconcileSession(sessionID)
	if session == nil {
		common.RespondWithError(s, i, "This role update has expired. Run /updateroles again.")
		return
	}
	if session.InvokerID != i.Member.User.ID {
		common.RespondWithError(s, i, "Only the admin who started this update can confirm it")
		return
	}
	deleteReconcileSession(sessionID)

	// The live run can take a while with the inter-grant delay, so acknowledge
	// first and edit the original message when done.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Errorf("Error acknowledging confirm button: %v", err)
		return
	}

	input := session.Input
	input.DryRun = false

	result, err := f.reconciler.Reconcile(context.Background(), input)
	if err != nil {
		log.WithError(err).WithField("team", session.Team).Error("Live reconciliation failed")
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds:     &[]*discordgo.MessageEmbed{buildFailureEmbed(session.Team)},
			Components: &[]discordgo.MessageComponent{},
		}); err != nil {
			log.Errorf("Error editing reconcile failure message: %v", err)
		}
		return
	}

	log.WithFields(log.Fields{
		"team":       session.Team,
		"wl_added":   result.Whitelist.Added,
		"ml_added":   result.Moolalist.Added,
		"fm_added":   result.FreeMint.Added,
		"invoked_by": session.InvokerID,
	}).Info("Applied threshold role update")

	f.bus.Emit(context.Background(), events.RolesReconciledEvent{
		Team:   session.Team,
		DryRun: false,
		Log:    *result,
	})

	embed := buildResultEmbed(session.Team, input.Thresholds, result)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &[]discordgo.MessageComponent{},
	}); err != nil {
		log.Errorf("Error editing reconcile result message: %v", err)
	}
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string) {
	deleteReconcileSession(sessionID)

	content := "Role update cancelled. No roles were changed."
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		log.Errorf("Error responding to cancel button: %v", err)
	}
}

func (f *Feature) handleAlreadyWanked(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if f.roles.WankedRoleID == "" {
		common.RespondWithError(s, i, "No wanked role is configured")
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error deferring alreadywanked response: %v", err)
		return
	}

	roleName, err := f.gateway.RoleName(context.Background(), f.roles.WankedRoleID)
	if err != nil {
		log.WithError(err).Warn("Could not resolve wanked role name")
		roleName = "wanked"
	}

	population, err := f.bulk.LinkedCount(context.Background())
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to count linked users for rollout"), true)
		return
	}

	preamble := fmt.Sprintf("Rolling out **%s** to **%d** linked members...", roleName, population)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &preamble,
	}); err != nil {
		log.Warnf("Error editing rollout preamble: %v", err)
	}

	progress := func(p service.BulkAssignProgress) {
		content := fmt.Sprintf("Rolling out... processed **%d** of **%d** (added %d, existing %d, errors %d)",
			p.Processed, population, p.Added, p.Existing, p.Errors)
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		}); err != nil {
			log.Warnf("Error editing rollout progress: %v", err)
		}
	}

	result, err := f.bulk.AssignFlagRole(context.Background(), f.roles.WankedRoleID, progress)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "bulk flag-role rollout failed"), true)
		return
	}

	content := fmt.Sprintf(
		"✅ Rollout of **%s** complete. Processed **%d** members: **%d** added, **%d** already had it, **%d** errors.",
		roleName, result.Processed, result.Added, result.Existing, result.Errors)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		log.Errorf("Error editing rollout result: %v", err)
	}
}

func (f *Feature) handlePurgeZeroBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Errorf("Error deferring purgezerobalance response: %v", err)
		return
	}

	result, err := f.purge.PurgeZeroBalance(context.Background())
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "zero-balance purge failed"), true)
		return
	}

	content := fmt.Sprintf(
		"🧹 Purge complete. Checked **%d** zero-balance users, removed **%d** roles, **%d** errors.",
		result.UsersChecked, result.RolesRemoved, result.Errors)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		log.Errorf("Error editing purge result: %v", err)
	}
}
