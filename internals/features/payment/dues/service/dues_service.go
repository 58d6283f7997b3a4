// file: internals/features/payment/dues/service/dues_service.go
package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	allocationService "hostelku_backend/internals/features/hostel/allocations/service"
	model "hostelku_backend/internals/features/payment/dues/model"
	feeService "hostelku_backend/internals/features/payment/fees/service"
	helper "hostelku_backend/internals/helpers"
)

var (
	ErrNoActiveAllocation = errors.New("student does not have an active room allocation")
	ErrNoFeeStructure     = feeService.ErrNoActiveFee
)

// monthsGenerated is how far ahead dues are materialized on first read:
// the current month plus the next three.
const monthsGenerated = 4

// GetStudentDues is the lazy generator/reconciler. In one transaction it
//  1. resolves the student's ACTIVE allocation and the room's current fee,
//  2. materializes current month + 3 if the student has no dues yet,
//  3. reprices every non-PAID due whose amount drifted from the current fee,
//  4. flips past-due PENDING rows to OVERDUE,
// and returns all dues sorted by month_year descending. A second call with
// nothing changed performs no writes.
func GetStudentDues(db *gorm.DB, tenantID, studentID uuid.UUID, now time.Time) ([]model.PaymentDueModel, error) {
	var dues []model.PaymentDueModel

	err := db.Transaction(func(tx *gorm.DB) error {
		allocation, err := allocationService.ActiveAllocationForStudent(tx, tenantID, studentID)
		if err != nil {
			if errors.Is(err, allocationService.ErrAllocationNotFound) {
				return ErrNoActiveAllocation
			}
			return err
		}

		fee, err := feeService.CurrentFeeForRoom(tx, tenantID, allocation.AllocationRoomID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.PaymentDueModel{}).
			Where("payment_due_tenant_id = ? AND payment_due_student_id = ?", tenantID, studentID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			month := helper.CurrentMonthYear(now)
			for i := 0; i < monthsGenerated; i++ {
				dueDate, err := helper.DueDateFor(month)
				if err != nil {
					return err
				}
				due := model.PaymentDueModel{
					PaymentDueTenantID:  tenantID,
					PaymentDueStudentID: studentID,
					PaymentDueMonthYear: month,
					PaymentDueAmount:    fee.FeeStructureMonthlyFee,
					PaymentDueDate:      dueDate,
					PaymentDueStatus:    model.PaymentDueStatusPending,
				}
				if err := tx.Create(&due).Error; err != nil {
					return err
				}
				if month, err = helper.AddMonths(month, 1); err != nil {
					return err
				}
			}
		} else {
			// sync unpaid amounts to the current fee; PAID rows stay frozen
			res := tx.Model(&model.PaymentDueModel{}).
				Where("payment_due_tenant_id = ? AND payment_due_student_id = ? AND payment_due_status <> ? AND payment_due_amount <> ?",
					tenantID, studentID, model.PaymentDueStatusPaid, fee.FeeStructureMonthlyFee).
				Update("payment_due_amount", fee.FeeStructureMonthlyFee)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				log.Printf("[INFO] repriced %d unpaid dues student=%s to %s",
					res.RowsAffected, studentID, fee.FeeStructureMonthlyFee.StringFixed(2))
			}
		}

		if err := tx.Model(&model.PaymentDueModel{}).
			Where("payment_due_tenant_id = ? AND payment_due_student_id = ? AND payment_due_status = ? AND payment_due_date < ?",
				tenantID, studentID, model.PaymentDueStatusPending, now).
			Update("payment_due_status", model.PaymentDueStatusOverdue).Error; err != nil {
			return err
		}

		return tx.
			Where("payment_due_tenant_id = ? AND payment_due_student_id = ?", tenantID, studentID).
			Order("payment_due_month_year DESC").
			Find(&dues).Error
	})
	if err != nil {
		return nil, err
	}
	return dues, nil
}
