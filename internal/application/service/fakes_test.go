package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// centerCtx builds a request context scoped to the given center, the way
// the HTTP middleware does for real requests.
func centerCtx(centerID uuid.UUID) context.Context {
	return infraRepo.WithCenter(context.Background(), centerID)
}

// ---------------------------------------------------------------------------
// In-memory repository fakes
// ---------------------------------------------------------------------------

type fakeBillRepo struct {
	bills map[uuid.UUID]*entity.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]*entity.Bill)}
}

func (r *fakeBillRepo) put(bill *entity.Bill) *entity.Bill {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	for i := range bill.Items {
		if bill.Items[i].ID == uuid.Nil {
			bill.Items[i].ID = uuid.New()
		}
	}
	r.bills[bill.ID] = bill
	return bill
}

func (r *fakeBillRepo) Create(_ context.Context, bill *entity.Bill) error {
	r.put(bill)
	return nil
}

func (r *fakeBillRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	return r.bills[id], nil
}

func (r *fakeBillRepo) GetByInvoiceNumber(_ context.Context, centerID uuid.UUID, invoiceNumber string) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.CenterID == centerID && b.InvoiceNumber == invoiceNumber {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) Update(_ context.Context, bill *entity.Bill) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) List(_ context.Context, centerID uuid.UUID, _ *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		if b.CenterID == centerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	return r.bills[id], nil
}

func (r *fakeBillRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.BillStatus) error {
	if b, ok := r.bills[id]; ok {
		b.Status = status
	}
	return nil
}

func (r *fakeBillRepo) ListForCollections(_ context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Bill, error) {
	inRange := func(t *time.Time) bool {
		return t != nil && !t.Before(start) && !t.After(end)
	}
	var out []entity.Bill
	for _, b := range r.bills {
		if b.CenterID != centerID {
			continue
		}
		if inRange(&b.GeneratedAt) || inRange(b.RefundedAt) || inRange(b.CancelledAt) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) AddPayment(_ context.Context, bill *entity.Bill, payment *entity.PaymentRecord) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	bill.Payments = append(bill.Payments, *payment)
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) AddRefund(_ context.Context, bill *entity.Bill, refund *entity.RefundRecord) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	bill.Refunds = append(bill.Refunds, *refund)
	r.bills[bill.ID] = bill
	return nil
}

type fakeTxnRepo struct {
	txns []*entity.Transaction

	// scan window recorded from the last ListForCollections call
	lastStart, lastEnd time.Time
}

func newFakeTxnRepo() *fakeTxnRepo { return &fakeTxnRepo{} }

func (r *fakeTxnRepo) Create(_ context.Context, txn *entity.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	r.txns = append(r.txns, txn)
	return nil
}

func (r *fakeTxnRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for _, t := range r.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) GetByReceiptNumber(_ context.Context, centerID uuid.UUID, receiptNumber string) (*entity.Transaction, error) {
	for _, t := range r.txns {
		if t.CenterID == centerID && t.ReceiptNumber == receiptNumber {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTxnRepo) Update(_ context.Context, txn *entity.Transaction) error {
	for i, t := range r.txns {
		if t.ID == txn.ID {
			r.txns[i] = txn
		}
	}
	return nil
}

func (r *fakeTxnRepo) matches(t *entity.Transaction, centerID uuid.UUID, search string) bool {
	if t.CenterID != centerID {
		return false
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	invoice := ""
	if t.InvoiceNumber != nil {
		invoice = *t.InvoiceNumber
	}
	return strings.Contains(strings.ToLower(t.ReceiptNumber), needle) ||
		strings.Contains(strings.ToLower(invoice), needle) ||
		strings.Contains(strings.ToLower(t.PatientName), needle)
}

func (r *fakeTxnRepo) List(_ context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Transaction, int64, error) {
	var all []entity.Transaction
	for _, t := range r.txns {
		if r.matches(t, centerID, search) {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	total := int64(len(all))
	params.Validate()
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeTxnRepo) ListWithCursor(_ context.Context, centerID uuid.UUID, cursor *pagination.Cursor, limit int, search string) ([]entity.Transaction, error) {
	var all []entity.Transaction
	for _, t := range r.txns {
		if r.matches(t, centerID, search) {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	var out []entity.Transaction
	for _, t := range all {
		if cursor != nil {
			if t.CreatedAt.After(cursor.CreatedAt) {
				continue
			}
			if t.CreatedAt.Equal(cursor.CreatedAt) && t.ID.String() >= cursor.ID {
				continue
			}
		}
		out = append(out, t)
		if len(out) == limit+1 {
			break
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) ListForCollections(_ context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Transaction, error) {
	r.lastStart, r.lastEnd = start, end

	inRange := func(t *time.Time) bool {
		return t != nil && !t.Before(start) && !t.After(end)
	}
	var out []entity.Transaction
	for _, t := range r.txns {
		if t.CenterID != centerID {
			continue
		}
		if inRange(&t.Date) || inRange(t.RefundedAt) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (r *fakePatientRepo) put(p *entity.Patient) *entity.Patient {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return p
}

func (r *fakePatientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.put(p)
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.patients[id], nil
}

func (r *fakePatientRepo) GetByMRN(_ context.Context, centerID uuid.UUID, mrn string) (*entity.Patient, error) {
	for _, p := range r.patients {
		if p.CenterID == centerID && p.MRN == mrn {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.patients, id)
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, centerID uuid.UUID, _ *pagination.PaginationParams, _ string) ([]entity.Patient, int64, error) {
	var out []entity.Patient
	for _, p := range r.patients {
		if p.CenterID == centerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePatientRepo) CountByCenter(_ context.Context, centerID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.patients {
		if p.CenterID == centerID {
			n++
		}
	}
	return n, nil
}

type fakeServiceItemRepo struct {
	items map[uuid.UUID]*entity.ServiceItem
}

func newFakeServiceItemRepo() *fakeServiceItemRepo {
	return &fakeServiceItemRepo{items: make(map[uuid.UUID]*entity.ServiceItem)}
}

func (r *fakeServiceItemRepo) put(item *entity.ServiceItem) *entity.ServiceItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return item
}

func (r *fakeServiceItemRepo) Create(_ context.Context, item *entity.ServiceItem) error {
	r.put(item)
	return nil
}

func (r *fakeServiceItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ServiceItem, error) {
	return r.items[id], nil
}

func (r *fakeServiceItemRepo) GetByCode(_ context.Context, centerID uuid.UUID, code string) (*entity.ServiceItem, error) {
	for _, item := range r.items {
		if item.CenterID == centerID && item.Code == code {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakeServiceItemRepo) Update(_ context.Context, item *entity.ServiceItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeServiceItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeServiceItemRepo) List(_ context.Context, centerID uuid.UUID, _ *pagination.PaginationParams, _, _ string, _ bool) ([]entity.ServiceItem, int64, error) {
	var out []entity.ServiceItem
	for _, item := range r.items {
		if item.CenterID == centerID {
			out = append(out, *item)
		}
	}
	return out, int64(len(out)), nil
}

type fakeCenterRepo struct {
	centers map[uuid.UUID]*entity.Center
}

func newFakeCenterRepo() *fakeCenterRepo {
	return &fakeCenterRepo{centers: make(map[uuid.UUID]*entity.Center)}
}

func (r *fakeCenterRepo) put(c *entity.Center) *entity.Center {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.centers[c.ID] = c
	return c
}

func (r *fakeCenterRepo) Create(_ context.Context, c *entity.Center) error {
	r.put(c)
	return nil
}

func (r *fakeCenterRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Center, error) {
	return r.centers[id], nil
}

func (r *fakeCenterRepo) GetBySlug(_ context.Context, slug string) (*entity.Center, error) {
	for _, c := range r.centers {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCenterRepo) Update(_ context.Context, c *entity.Center) error {
	r.centers[c.ID] = c
	return nil
}

func (r *fakeCenterRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.centers, id)
	return nil
}

func (r *fakeCenterRepo) GetUserCenters(_ context.Context, _ uuid.UUID, _ *pagination.PaginationParams) ([]entity.Center, int64, error) {
	return nil, 0, nil
}

func (r *fakeCenterRepo) AddMember(_ context.Context, _ *entity.CenterMembership) error { return nil }

func (r *fakeCenterRepo) RemoveMember(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakeCenterRepo) GetMembers(_ context.Context, _ uuid.UUID) ([]entity.CenterMembership, error) {
	return nil, nil
}

func (r *fakeCenterRepo) IsMember(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return true, nil
}

func (r *fakeCenterRepo) GetMembership(_ context.Context, _, _ uuid.UUID) (*entity.CenterMembership, error) {
	return nil, nil
}

func (r *fakeCenterRepo) UpdateMemberRole(_ context.Context, _, _ uuid.UUID, _ string) error {
	return nil
}

func (r *fakeCenterRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	c, _ := r.GetBySlug(context.Background(), slug)
	return c != nil, nil
}

type fakeApptRepo struct {
	appts map[uuid.UUID]*entity.Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appts: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeApptRepo) put(a *entity.Appointment) *entity.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appts[a.ID] = a
	return a
}

func (r *fakeApptRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.put(a)
	return nil
}

func (r *fakeApptRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return r.appts[id], nil
}

func (r *fakeApptRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.appts[a.ID] = a
	return nil
}

func (r *fakeApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.appts, id)
	return nil
}

func (r *fakeApptRepo) List(_ context.Context, centerID uuid.UUID, _ *repository.AppointmentFilterParams) ([]entity.Appointment, int64, error) {
	var out []entity.Appointment
	for _, a := range r.appts {
		if a.CenterID == centerID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.AppointmentStatus) error {
	if a, ok := r.appts[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *fakeApptRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID || a.Status == enum.AppointmentStatusCancelled {
			continue
		}
		if a.ScheduledAt.Before(end) && start.Before(a.EndsAt()) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) CountForDay(_ context.Context, centerID uuid.UUID, day time.Time) (int64, error) {
	var n int64
	for _, a := range r.appts {
		if a.CenterID == centerID && a.Status != enum.AppointmentStatusCancelled &&
			a.ScheduledAt.Year() == day.Year() && a.ScheduledAt.YearDay() == day.YearDay() {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) put(u *entity.User) *entity.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.put(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListDoctors(_ context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetWithRoles(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) AssignRole(_ context.Context, _ uuid.UUID, _ uint) error { return nil }

func (r *fakeUserRepo) RemoveRole(_ context.Context, _ uuid.UUID, _ uint) error { return nil }

type fakeRoleRepo struct {
	roles  map[uint]*entity.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]*entity.Role), nextID: 1}
}

func (r *fakeRoleRepo) put(role *entity.Role) *entity.Role {
	if role.ID == 0 {
		role.ID = r.nextID
		r.nextID++
	}
	r.roles[role.ID] = role
	return role
}

func (r *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.put(role)
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint) (*entity.Role, error) {
	return r.roles[id], nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *entity.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) List(_ context.Context) ([]entity.Role, error) {
	var out []entity.Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) GetWithPermissions(_ context.Context, id uint) (*entity.Role, error) {
	return r.roles[id], nil
}

func (r *fakeRoleRepo) SyncPermissions(_ context.Context, _ uint, _ []uint) error { return nil }

type fakePermissionRepo struct {
	perms map[uint]*entity.Permission
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{perms: make(map[uint]*entity.Permission)}
}

func (r *fakePermissionRepo) Create(_ context.Context, p *entity.Permission) error {
	r.perms[p.ID] = p
	return nil
}

func (r *fakePermissionRepo) GetByID(_ context.Context, id uint) (*entity.Permission, error) {
	return r.perms[id], nil
}

func (r *fakePermissionRepo) GetByName(_ context.Context, name string) (*entity.Permission, error) {
	for _, p := range r.perms {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePermissionRepo) Update(_ context.Context, p *entity.Permission) error {
	r.perms[p.ID] = p
	return nil
}

func (r *fakePermissionRepo) Delete(_ context.Context, id uint) error {
	delete(r.perms, id)
	return nil
}

func (r *fakePermissionRepo) List(_ context.Context) ([]entity.Permission, error) {
	var out []entity.Permission
	for _, p := range r.perms {
		out = append(out, *p)
	}
	return out, nil
}
