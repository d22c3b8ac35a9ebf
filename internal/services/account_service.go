package services

import (
	"errors"

	"github.com/mailru-checker/core/internal/database/models"
	"gorm.io/gorm"
)

var (
	// ErrInvalidEmail indicates an account entry without a usable email
	ErrInvalidEmail = errors.New("invalid account email")
)

// AccountService handles the monitored-mailbox list
type AccountService struct {
	db         *gorm.DB
	logService *LogService
}

// NewAccountService creates a new AccountService instance
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{
		db:         db,
		logService: NewLogService(db),
	}
}

// ListAccounts returns all accounts in stored order.
func (s *AccountService) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// AddAccount appends one account unless its email is already present.
// The duplicate check is an exact string match, nothing is normalized.
// Adding an existing email is not an error; the stored entry is returned.
func (s *AccountService) AddAccount(email string) (*models.Account, error) {
	if email == "" {
		return nil, ErrInvalidEmail
	}

	var existing models.Account
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account := &models.Account{Email: email}
	if err := s.db.Create(account).Error; err != nil {
		return nil, err
	}

	s.logService.LogInfo(models.LogModuleAccount, "add", "Account added", map[string]interface{}{
		"email": email,
	})
	return account, nil
}

// ReplaceAccounts swaps the stored list wholesale for the given emails,
// preserving their order. Entries were already filtered for empties by
// the caller, but empty strings are dropped here too.
func (s *AccountService) ReplaceAccounts(emails []string) ([]models.Account, error) {
	var accounts []models.Account

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Account{}).Error; err != nil {
			return err
		}
		for _, email := range emails {
			if email == "" {
				continue
			}
			account := models.Account{Email: email}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
			accounts = append(accounts, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logService.LogInfo(models.LogModuleAccount, "sync", "Account list replaced", map[string]interface{}{
		"count": len(accounts),
	})
	return accounts, nil
}
