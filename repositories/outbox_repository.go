package repositories

import (
	"time"

	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

func EnqueueOutbox(tx *gorm.DB, o *models.Outbox) error {
	return tx.Create(o).Error
}

// ListPendingOutbox returns unsent rows ordered so that each case's rows
// come out in insertion order.
func ListPendingOutbox(tx *gorm.DB) ([]models.Outbox, error) {
	var rows []models.Outbox
	err := tx.Where("sent_at IS NULL").Order("case_id, id").Find(&rows).Error
	return rows, err
}

func MarkOutboxSent(tx *gorm.DB, id uint) error {
	now := time.Now()
	return tx.Model(&models.Outbox{}).Where("id = ?", id).
		Updates(map[string]interface{}{"sent_at": now, "last_error": ""}).Error
}

func MarkOutboxFailed(tx *gorm.DB, id uint, lastError string) error {
	return tx.Model(&models.Outbox{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}

func ListOutboxByCase(tx *gorm.DB, caseID uint) ([]models.Outbox, error) {
	var rows []models.Outbox
	err := tx.Where("case_id = ?", caseID).Order("id").Find(&rows).Error
	return rows, err
}
