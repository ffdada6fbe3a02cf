package moola

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wanksy/bot/common"
	"wanksy/service"
)

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target, amount, err := parseUserAmount(s, i)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	fromID, err := common.ParseDiscordID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	toID, err := common.ParseDiscordID(target.ID)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.moola.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		f.respondTransferError(s, i, err)
		return
	}

	log.WithFields(log.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	}).Info("Moola transferred")

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: common.FormatTransferResult(result.Amount, toID, result.SenderPoints),
		},
	}); err != nil {
		log.Errorf("Error responding to transfer command: %v", err)
	}
}

func (f *Feature) handleFine(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target, amount, err := parseUserAmount(s, i)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	targetID, err := common.ParseDiscordID(target.ID)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	newBalance, err := f.moola.Fine(ctx, targetID, amount)
	if err != nil {
		// Service validation messages are already plain language
		if isValidationError(err) {
			common.RespondWithError(s, i, err.Error())
		} else {
			common.HandleError(s, i, common.NewSystemError(err, "fine failed"), false)
		}
		return
	}

	log.WithFields(log.Fields{
		"target":   targetID,
		"amount":   amount,
		"fined_by": i.Member.User.ID,
	}).Info("Moola fine applied")

	targetName := common.GetDisplayName(s, i.GuildID, target.ID)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: common.FormatFineResult(amount, targetName, newBalance),
		},
	}); err != nil {
		log.Errorf("Error responding to fine command: %v", err)
	}
}

func (f *Feature) respondTransferError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if isValidationError(err) {
		common.RespondWithError(s, i, err.Error())
		return
	}
	common.HandleError(s, i, common.NewSystemError(err, "transfer failed"), false)
}

// parseUserAmount extracts the shared user/amount option pair
func parseUserAmount(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.User, int64, error) {
	var target *discordgo.User
	var amount int64

	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if target == nil {
		return nil, 0, errors.New("You must pick a user")
	}
	if amount <= 0 {
		return nil, 0, errors.New("Amount must be positive")
	}
	return target, amount, nil
}

// isValidationError distinguishes expected rejections (insufficient balance,
// fine floor, self-transfer) from real failures so the reply can quote the
// service's own message.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrAmountNotPositive) ||
		errors.Is(err, service.ErrSelfTransfer) ||
		errors.Is(err, service.ErrUserNotFound) ||
		errors.Is(err, service.ErrInsufficientBalance) ||
		errors.Is(err, service.ErrFineExceedsBalance)
}
