package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/billing"
	"github.com/pms-parking/parkwash/internal/models"
)

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func formatRate(r *models.Rate) gin.H {
	return gin.H{
		"id":           r.ID,
		"vehicle_type": r.VehicleType,
		"rate_type":    r.RateType,
		"price":        r.Price,
		"description":  r.Description,
		"is_active":    r.IsActive,
		"updated_at":   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatRecord(r *models.ParkingRecord) gin.H {
	return gin.H{
		"id":                 r.ID,
		"vehicle_id":         r.VehicleID,
		"plate":              r.Vehicle.Plate,
		"vehicle_type":       r.Vehicle.VehicleType,
		"shift_id":           r.ShiftID,
		"admin_id":           r.AdminID,
		"entry_time":         formatTime(&r.EntryTime),
		"exit_time":          formatTime(r.ExitTime),
		"parking_rate_id":    r.ParkingRateID,
		"subscription_id":    r.SubscriptionID,
		"washing_service_id": r.WashingServiceID,
		"helmet_count":       r.HelmetCount,
		"helmet_charge":      r.HelmetCharge,
		"total_cost":         r.TotalCost,
		"payment_status":     r.PaymentStatus,
		"notes":              r.Notes,
	}
}

func formatQuote(q billing.Quote) gin.H {
	return gin.H{
		"elapsed_minutes":  q.ElapsedMinutes,
		"free_minutes":     q.FreeMinutes,
		"billable_minutes": q.BillableMinutes,
		"billed_hours":     q.BilledHours,
		"standard_cost":    q.StandardCost,
		"parking_cost":     q.ParkingCost,
		"helmet_charge":    q.HelmetCharge,
		"total_cost":       q.TotalCost,
		"rule":             q.Rule,
	}
}

func formatShift(s *models.Shift) gin.H {
	return gin.H{
		"id":             s.ID,
		"admin_id":       s.AdminID,
		"shift_date":     formatDate(s.ShiftDate),
		"start_time":     formatTime(&s.StartTime),
		"end_time":       formatTime(s.EndTime),
		"initial_cash":   s.InitialCash,
		"final_cash":     s.FinalCash,
		"total_income":   s.TotalIncome,
		"total_expenses": s.TotalExpenses,
		"notes":          s.Notes,
	}
}

func formatExpense(e *models.Expense) gin.H {
	return gin.H{
		"id":           e.ID,
		"shift_id":     e.ShiftID,
		"expense_type": e.ExpenseType,
		"amount":       e.Amount,
		"description":  e.Description,
		"expense_date": formatDate(e.ExpenseDate),
	}
}

func formatSubscription(s *models.MonthlySubscription) gin.H {
	return gin.H{
		"id":             s.ID,
		"vehicle_id":     s.VehicleID,
		"start_date":     formatDate(s.StartDate),
		"end_date":       formatDate(s.EndDate),
		"monthly_fee":    s.MonthlyFee,
		"payment_status": s.PaymentStatus,
		"notes":          s.Notes,
	}
}

func formatAgreement(a *models.Agreement) gin.H {
	return gin.H{
		"id":                  a.ID,
		"company_name":        a.CompanyName,
		"contact_name":        a.ContactName,
		"contact_phone":       a.ContactPhone,
		"contact_email":       a.ContactEmail,
		"start_date":          formatDate(a.StartDate),
		"end_date":            formatTime(a.EndDate),
		"discount_percentage": a.DiscountPercentage,
		"special_rate":        a.SpecialRate,
		"status":              a.Status,
		"notes":               a.Notes,
	}
}

func formatWash(w *models.WashingService) gin.H {
	return gin.H{
		"id":                w.ID,
		"vehicle_id":        w.VehicleID,
		"parking_record_id": w.ParkingRecordID,
		"washer_id":         w.WasherID,
		"shift_id":          w.ShiftID,
		"admin_id":          w.AdminID,
		"service_type":      w.ServiceType,
		"service_date":      formatTime(&w.ServiceDate),
		"price":             w.Price,
		"start_time":        formatTime(w.StartTime),
		"end_time":          formatTime(w.EndTime),
		"payment_status":    w.PaymentStatus,
		"notes":             w.Notes,
	}
}

func formatWasher(w *models.Washer) gin.H {
	return gin.H{
		"id":                    w.ID,
		"full_name":             w.FullName,
		"email":                 w.Email,
		"phone":                 w.Phone,
		"commission_percentage": w.CommissionPercentage,
		"is_active":             w.IsActive,
	}
}

func formatAdvance(a *models.EmployeeAdvance) gin.H {
	return gin.H{
		"id":                     a.ID,
		"washer_id":              a.WasherID,
		"total_amount":           a.TotalAmount,
		"number_of_installments": a.NumberOfInstallments,
		"installment_amount":     a.InstallmentAmount,
		"remaining_amount":       a.RemainingAmount,
		"description":            a.Description,
		"status":                 a.Status,
	}
}

func formatBonus(b *models.Bonus) gin.H {
	var details any
	if len(b.Details) > 0 {
		details = json.RawMessage(b.Details)
	}
	return gin.H{
		"id":         b.ID,
		"washer_id":  b.WasherID,
		"bonus_date": formatDate(b.BonusDate),
		"amount":     b.Amount,
		"reason":     b.Reason,
		"details":    details,
	}
}

func formatSetting(s *models.Setting) gin.H {
	return gin.H{
		"key":        s.Key,
		"value":      json.RawMessage(s.Value),
		"updated_at": s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
