// file: internals/features/payment/fees/service/fee_service.go
package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	duesModel "hostelku_backend/internals/features/payment/dues/model"
	model "hostelku_backend/internals/features/payment/fees/model"
	helper "hostelku_backend/internals/helpers"
)

var ErrNoActiveFee = errors.New("no active fee structure for room")

// CurrentFeeForRoom resolves the room's active fee structure
// (effective_to IS NULL, most recent effective_from).
func CurrentFeeForRoom(db *gorm.DB, tenantID, roomID uuid.UUID) (*model.FeeStructureModel, error) {
	var fee model.FeeStructureModel
	err := db.
		Where("fee_structure_tenant_id = ? AND fee_structure_room_id = ? AND fee_structure_effective_to IS NULL",
			tenantID, roomID).
		Order("fee_structure_effective_from DESC").
		First(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveFee
		}
		return nil, err
	}
	return &fee, nil
}

// SetRoomFee closes the room's current fee version and inserts the new one,
// then reprices every unpaid due of students currently allocated to the
// room. One transaction; the closed version plus the log line form the
// audit trail of the change.
func SetRoomFee(db *gorm.DB, tenantID, roomID uuid.UUID, monthlyFee decimal.Decimal) (*model.FeeStructureModel, error) {
	now := time.Now()
	newFee := &model.FeeStructureModel{
		FeeStructureTenantID:      tenantID,
		FeeStructureRoomID:        roomID,
		FeeStructureMonthlyFee:    monthlyFee,
		FeeStructureEffectiveFrom: now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var current model.FeeStructureModel
		err := helper.LockForUpdate(tx).
			Where("fee_structure_tenant_id = ? AND fee_structure_room_id = ? AND fee_structure_effective_to IS NULL",
				tenantID, roomID).
			Order("fee_structure_effective_from DESC").
			First(&current).Error
		switch {
		case err == nil:
			if current.FeeStructureMonthlyFee.Equal(monthlyFee) {
				newFee = &current
				return nil
			}
			if err := tx.Model(&model.FeeStructureModel{}).
				Where("fee_structure_id = ?", current.FeeStructureID).
				Update("fee_structure_effective_to", now).Error; err != nil {
				return err
			}
			log.Printf("[INFO] fee change room=%s %s -> %s", roomID,
				current.FeeStructureMonthlyFee.StringFixed(2), monthlyFee.StringFixed(2))
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first fee for this room
		default:
			return err
		}

		if err := tx.Create(newFee).Error; err != nil {
			return err
		}

		// eager repricing of unpaid dues for students living in the room;
		// the lazy sync on the dues read remains as a safety net
		var studentIDs []uuid.UUID
		if err := tx.Model(&allocationModel.AllocationModel{}).
			Where("allocation_tenant_id = ? AND allocation_room_id = ? AND allocation_status = ?",
				tenantID, roomID, allocationModel.AllocationStatusActive).
			Pluck("allocation_student_id", &studentIDs).Error; err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return nil
		}
		return tx.Model(&duesModel.PaymentDueModel{}).
			Where("payment_due_tenant_id = ? AND payment_due_student_id IN ? AND payment_due_status <> ? AND payment_due_amount <> ?",
				tenantID, studentIDs, duesModel.PaymentDueStatusPaid, monthlyFee).
			Update("payment_due_amount", monthlyFee).Error
	})
	if err != nil {
		return nil, err
	}
	return newFee, nil
}
