package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"wanksy/service"
)

// discordGateway implements service.MembershipGateway over a discordgo session.
// Member lookups hit the state cache first and fall back to the REST API; an
// unknown-member response maps to (nil, nil) so callers can tell "left the
// server" apart from a real failure.
type discordGateway struct {
	session *discordgo.Session
	guildID string
}

func newDiscordGateway(session *discordgo.Session, guildID string) service.MembershipGateway {
	return &discordGateway{
		session: session,
		guildID: guildID,
	}
}

func (g *discordGateway) ResolveMember(ctx context.Context, discordID int64) (*service.Member, error) {
	userID := strconv.FormatInt(discordID, 10)

	member, err := g.session.State.Member(g.guildID, userID)
	if err != nil {
		member, err = g.session.GuildMember(g.guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			if isUnknownMember(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
		}
	}

	return &service.Member{
		DiscordID: discordID,
		RoleIDs:   member.Roles,
	}, nil
}

func (g *discordGateway) AddRole(ctx context.Context, discordID int64, roleID string) error {
	userID := strconv.FormatInt(discordID, 10)
	if err := g.session.GuildMemberRoleAdd(g.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %s to member %s: %w", roleID, userID, err)
	}
	return nil
}

func (g *discordGateway) RemoveRole(ctx context.Context, discordID int64, roleID string) error {
	userID := strconv.FormatInt(discordID, 10)
	if err := g.session.GuildMemberRoleRemove(g.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to remove role %s from member %s: %w", roleID, userID, err)
	}
	return nil
}

func (g *discordGateway) RoleName(ctx context.Context, roleID string) (string, error) {
	if role, err := g.session.State.Role(g.guildID, roleID); err == nil {
		return role.Name, nil
	}

	roles, err := g.session.GuildRoles(g.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role.Name, nil
		}
	}

	return "", fmt.Errorf("role %s not found", roleID)
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMember ||
			restErr.Message.Code == discordgo.ErrCodeUnknownUser
	}
	return false
}
