package app

import (
	"context"
	"fmt"
	"log/slog"

	"erp-demo/internal/domain"
)

// adminUserID is the "admin" row of the seeded jhi_user table.
const adminUserID int64 = 3

// seedDemoData populates an empty store with a small organization tree:
// one organization, two members and a handful of placeholders. Idempotent:
// any existing app user skips seeding. Rows go through the services so the
// search index is mirrored like any other write.
func seedDemoData(ctx context.Context, svcs Services, logger *slog.Logger) error {
	n, err := svcs.AppUser.Count(ctx)
	if err != nil {
		return fmt.Errorf("count app users: %w", err)
	}
	if n > 0 {
		return nil
	}

	// --- Organization ---
	org, err := svcs.AppUser.Create(ctx, &domain.AppUser{Designation: "Acme Holdings"})
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}

	// --- Placeholders ---
	template, err := svcs.Placeholder.Create(ctx, &domain.Placeholder{
		PlaceholderIndex: "invoice.footer",
		PlaceholderValue: strPtr("Payable within 30 days"),
		OrganizationID:   &org.ID,
	})
	if err != nil {
		return fmt.Errorf("create template placeholder: %w", err)
	}
	derived, err := svcs.Placeholder.Create(ctx, &domain.Placeholder{
		PlaceholderIndex: "invoice.footer.eu",
		PlaceholderValue: strPtr("Payable within 14 days"),
		ArchetypeID:      &template.ID,
		OrganizationID:   &org.ID,
	})
	if err != nil {
		return fmt.Errorf("create derived placeholder: %w", err)
	}
	greeting, err := svcs.Placeholder.Create(ctx, &domain.Placeholder{
		PlaceholderIndex: "mail.greeting",
		PlaceholderValue: strPtr("Dear customer"),
	})
	if err != nil {
		return fmt.Errorf("create greeting placeholder: %w", err)
	}

	// --- Members ---
	admin := adminUserID
	if _, err := svcs.AppUser.Create(ctx, &domain.AppUser{
		Designation:    "Administrator",
		SystemUserID:   &admin,
		OrganizationID: &org.ID,
		PlaceholderIDs: []int64{template.ID, derived.ID},
	}); err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}
	if _, err := svcs.AppUser.Create(ctx, &domain.AppUser{
		Designation:    "Accounts clerk",
		OrganizationID: &org.ID,
		PlaceholderIDs: []int64{greeting.ID},
	}); err != nil {
		return fmt.Errorf("create clerk: %w", err)
	}

	logger.Info("seeded demo data", "organization", org.ID)
	return nil
}

func strPtr(s string) *string { return &s }
