package sales

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/models"
)

const billWindow = 100

// NextBillNumber returns the highest numeric bill number among the most
// recent sales plus one, zero padded to six digits. Numbers already taken
// are skipped.
func NextBillNumber(db *gorm.DB) (string, error) {
	var recent []string
	err := db.Model(&models.Sale{}).
		Order("id desc").
		Limit(billWindow).
		Pluck("bill_number", &recent).Error
	if err != nil {
		return "", err
	}

	var last uint64
	for _, b := range recent {
		if n, err := strconv.ParseUint(strings.TrimSpace(b), 10, 64); err == nil && n > last {
			last = n
		}
	}

	for n := last + 1; ; n++ {
		candidate := fmt.Sprintf("%06d", n)

		var count int64
		if err := db.Model(&models.Sale{}).Where("bill_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}
