package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuanvm/draftguard/internal/lock"
	"github.com/tuanvm/draftguard/internal/model"
	"github.com/tuanvm/draftguard/internal/session"
)

// lockCmd toggles section locks on a stored draft session
var lockCmd = &cobra.Command{
	Use:   "lock <draft-id> <section|policy>",
	Short: "Lock a section of a stored draft, or apply a lock policy",
	Long: `Lock marks a section as do-not-change for all future edits of the
draft. Accepts a section (HOOK, BODY, CTA, TONE) or a policy
(default, lock_all, unlock_all).

The default policy locks HOOK, CTA and TONE and unlocks the body:
body is mutable, framing is protected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleLock(args[0], args[1], true)
	},
}

// unlockCmd clears a section lock
var unlockCmd = &cobra.Command{
	Use:   "unlock <draft-id> <section>",
	Short: "Unlock a section of a stored draft",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleLock(args[0], args[1], false)
	},
}

func toggleLock(draftID, what string, locked bool) error {
	cfg := loadConfig()
	store := session.NewStore(cfg.Session.Dir, cfg.Session.MemoryTTL, cfg.Session.DiskTTL)

	unlock := store.Lock(draftID)
	defer unlock()

	canon, found, err := store.Load(draftID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no stored session for draft %q", draftID)
	}

	switch policy := lock.Policy(strings.ToLower(what)); policy {
	case lock.PolicyDefault, lock.PolicyLockAll, lock.PolicyUnlock:
		canon = lock.ApplyCanonLocks(canon, policy)
	default:
		section := model.Section(strings.ToUpper(what))
		if err := section.Validate(); err != nil || section == model.SectionFull {
			return fmt.Errorf("unknown section or policy %q", what)
		}
		canon = lock.UpdateSectionLock(canon, section, locked)
	}

	if err := store.Save(canon); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Printf("Locked sections for %s: %s\n", draftID, joinSectionNames(canon.LockedSections()))
	return nil
}

func init() {
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
}
