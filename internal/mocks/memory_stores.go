package mocks

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/store"
)

// MemoryCarStore implements store.CarStore over Memory.
type MemoryCarStore struct{ mem *Memory }

// MemoryUserStore implements store.UserStore over Memory.
type MemoryUserStore struct{ mem *Memory }

// MemoryRentalStore implements store.RentalStore over Memory.
type MemoryRentalStore struct{ mem *Memory }

// MemoryRentalReturnStore implements store.RentalReturnStore over Memory.
type MemoryRentalReturnStore struct{ mem *Memory }

var (
	_ store.CarStore          = (*MemoryCarStore)(nil)
	_ store.UserStore         = (*MemoryUserStore)(nil)
	_ store.RentalStore       = (*MemoryRentalStore)(nil)
	_ store.RentalReturnStore = (*MemoryRentalReturnStore)(nil)
)

// CarStore returns the car table.
func (m *Memory) CarStore() *MemoryCarStore { return &MemoryCarStore{mem: m} }

// UserStore returns the user table.
func (m *Memory) UserStore() *MemoryUserStore { return &MemoryUserStore{mem: m} }

// RentalStore returns the rental table.
func (m *Memory) RentalStore() *MemoryRentalStore { return &MemoryRentalStore{mem: m} }

// RentalReturnStore returns the rental return table.
func (m *Memory) RentalReturnStore() *MemoryRentalReturnStore {
	return &MemoryRentalReturnStore{mem: m}
}

// Cars

func (s *MemoryCarStore) WithTx(_ *sql.Tx) store.CarStore { return s }

func (s *MemoryCarStore) FindAll(_ context.Context, filter string) ([]domain.Car, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.FindAll"); err != nil {
		return nil, err
	}
	var out []domain.Car
	for _, id := range sortedIDs(s.mem.cars) {
		c := s.mem.cars[id]
		if filter == "" || containsFold(c.Brand, filter) || containsFold(c.Model, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryCarStore) FindByID(_ context.Context, id int64) (*domain.Car, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.FindByID"); err != nil {
		return nil, err
	}
	c, ok := s.mem.cars[id]
	if !ok {
		return nil, store.ErrCarNotFound
	}
	return &c, nil
}

func (s *MemoryCarStore) ExistsDuplicate(_ context.Context, car *domain.Car, excludeID int64) (bool, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.ExistsDuplicate"); err != nil {
		return false, err
	}
	for id, c := range s.mem.cars {
		if id != excludeID && c.SameIdentity(car) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryCarStore) Insert(_ context.Context, car *domain.Car) (int64, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.Insert"); err != nil {
		return 0, err
	}
	c := *car
	c.ID = s.mem.newID()
	s.mem.cars[c.ID] = c
	return c.ID, nil
}

func (s *MemoryCarStore) Update(_ context.Context, car *domain.Car) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.Update"); err != nil {
		return err
	}
	if _, ok := s.mem.cars[car.ID]; !ok {
		return store.ErrCarNotFound
	}
	s.mem.cars[car.ID] = *car
	return nil
}

func (s *MemoryCarStore) Delete(_ context.Context, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("CarStore.Delete"); err != nil {
		return err
	}
	if _, ok := s.mem.cars[id]; !ok {
		return store.ErrCarNotFound
	}
	for _, r := range s.mem.rentals {
		if r.CarID == id {
			return store.ErrForeignKey
		}
	}
	delete(s.mem.cars, id)
	return nil
}

// Users

func (s *MemoryUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

func (s *MemoryUserStore) FindAll(_ context.Context, filter string) ([]domain.User, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.FindAll"); err != nil {
		return nil, err
	}
	var out []domain.User
	for _, id := range sortedIDs(s.mem.users) {
		u := s.mem.users[id]
		if filter == "" || containsFold(u.Name, filter) || containsFold(u.Email, filter) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.FindByID"); err != nil {
		return nil, err
	}
	u, ok := s.mem.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.FindByEmail"); err != nil {
		return nil, err
	}
	for _, id := range sortedIDs(s.mem.users) {
		if u := s.mem.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *MemoryUserStore) ExistsDuplicate(_ context.Context, user *domain.User, excludeID int64) (bool, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.ExistsDuplicate"); err != nil {
		return false, err
	}
	for id, u := range s.mem.users {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) &&
			sameOptional(u.PhoneNumber, user.PhoneNumber) &&
			sameOptional(u.DrivingLicenseNumber, user.DrivingLicenseNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryUserStore) emailTaken(email string, excludeID int64) bool {
	for id, u := range s.mem.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *MemoryUserStore) Insert(_ context.Context, user *domain.User) (int64, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.Insert"); err != nil {
		return 0, err
	}
	if s.emailTaken(user.Email, 0) {
		return 0, store.ErrEmailExists
	}
	u := *user
	u.ID = s.mem.newID()
	u.Password = ""
	s.mem.users[u.ID] = u
	return u.ID, nil
}

func (s *MemoryUserStore) Update(_ context.Context, user *domain.User) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.Update"); err != nil {
		return err
	}
	existing, ok := s.mem.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	u := *user
	u.Password = ""
	u.HashedPassword = existing.HashedPassword
	s.mem.users[u.ID] = u
	return nil
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.UpdatePassword"); err != nil {
		return err
	}
	u, ok := s.mem.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	s.mem.users[id] = u
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("UserStore.Delete"); err != nil {
		return err
	}
	if _, ok := s.mem.users[id]; !ok {
		return store.ErrUserNotFound
	}
	for _, r := range s.mem.rentals {
		if r.UserID == id {
			return store.ErrForeignKey
		}
	}
	delete(s.mem.users, id)
	return nil
}

// Rentals

func (s *MemoryRentalStore) WithTx(_ *sql.Tx) store.RentalStore { return s }

// joined fills the read-only user and car columns. Callers hold the lock.
func (s *MemoryRentalStore) joined(r domain.Rental) domain.Rental {
	r.UserName = s.mem.users[r.UserID].Name
	c := s.mem.cars[r.CarID]
	r.CarBrand, r.CarModel = c.Brand, c.Model
	return r
}

func (s *MemoryRentalStore) find(op, filter string, userID int64) ([]domain.Rental, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure(op); err != nil {
		return nil, err
	}
	var out []domain.Rental
	for _, id := range sortedIDs(s.mem.rentals) {
		r := s.joined(s.mem.rentals[id])
		if userID > 0 && r.UserID != userID {
			continue
		}
		if filter == "" || containsFold(r.CarBrand, filter) ||
			containsFold(r.CarModel, filter) || containsFold(r.UserName, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryRentalStore) FindAll(_ context.Context, filter string) ([]domain.Rental, error) {
	return s.find("RentalStore.FindAll", filter, 0)
}

func (s *MemoryRentalStore) FindAllForUser(_ context.Context, filter string, userID int64) ([]domain.Rental, error) {
	return s.find("RentalStore.FindAllForUser", filter, userID)
}

func (s *MemoryRentalStore) FindByID(_ context.Context, id int64) (*domain.Rental, error) {
	return s.findOne("RentalStore.FindByID", id, 0)
}

func (s *MemoryRentalStore) FindByIDForUser(_ context.Context, id, userID int64) (*domain.Rental, error) {
	return s.findOne("RentalStore.FindByIDForUser", id, userID)
}

func (s *MemoryRentalStore) findOne(op string, id, userID int64) (*domain.Rental, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure(op); err != nil {
		return nil, err
	}
	r, ok := s.mem.rentals[id]
	if !ok || (userID > 0 && r.UserID != userID) {
		return nil, store.ErrRentalNotFound
	}
	r = s.joined(r)
	return &r, nil
}

func (s *MemoryRentalStore) ExistsForCar(_ context.Context, carID int64) (bool, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.ExistsForCar"); err != nil {
		return false, err
	}
	for _, r := range s.mem.rentals {
		if r.CarID == carID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryRentalStore) ExistsForUser(_ context.Context, userID int64) (bool, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.ExistsForUser"); err != nil {
		return false, err
	}
	for _, r := range s.mem.rentals {
		if r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryRentalStore) FindOverlapping(
	_ context.Context,
	carID int64,
	start, end time.Time,
	excludeID int64,
) ([]domain.Rental, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.FindOverlapping"); err != nil {
		return nil, err
	}
	window := domain.Rental{StartDate: start, EndDate: end}
	var out []domain.Rental
	for _, id := range sortedIDs(s.mem.rentals) {
		r := s.mem.rentals[id]
		if id == excludeID || r.CarID != carID || !r.Overlaps(&window) {
			continue
		}
		returned := false
		for _, rr := range s.mem.returns {
			if rr.RentalID == id {
				returned = true
				break
			}
		}
		if !returned {
			out = append(out, s.joined(r))
		}
	}
	return out, nil
}

func (s *MemoryRentalStore) checkRefs(r *domain.Rental) error {
	if _, ok := s.mem.users[r.UserID]; !ok {
		return store.ErrForeignKey
	}
	if _, ok := s.mem.cars[r.CarID]; !ok {
		return store.ErrForeignKey
	}
	return nil
}

func (s *MemoryRentalStore) Insert(_ context.Context, rental *domain.Rental) (int64, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.Insert"); err != nil {
		return 0, err
	}
	if err := s.checkRefs(rental); err != nil {
		return 0, err
	}
	r := *rental
	r.ID = s.mem.newID()
	r.UserName, r.CarBrand, r.CarModel = "", "", ""
	s.mem.rentals[r.ID] = r
	return r.ID, nil
}

func (s *MemoryRentalStore) Update(_ context.Context, rental *domain.Rental) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.Update"); err != nil {
		return err
	}
	if _, ok := s.mem.rentals[rental.ID]; !ok {
		return store.ErrRentalNotFound
	}
	if err := s.checkRefs(rental); err != nil {
		return err
	}
	r := *rental
	r.UserName, r.CarBrand, r.CarModel = "", "", ""
	s.mem.rentals[r.ID] = r
	return nil
}

func (s *MemoryRentalStore) Delete(_ context.Context, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalStore.Delete"); err != nil {
		return err
	}
	if _, ok := s.mem.rentals[id]; !ok {
		return store.ErrRentalNotFound
	}
	for _, rr := range s.mem.returns {
		if rr.RentalID == id {
			return store.ErrForeignKey
		}
	}
	delete(s.mem.rentals, id)
	return nil
}

// Rental returns

func (s *MemoryRentalReturnStore) WithTx(_ *sql.Tx) store.RentalReturnStore { return s }

// joined fills the read-only rental, user and car columns. Callers hold the lock.
func (s *MemoryRentalReturnStore) joined(rr domain.RentalReturn) domain.RentalReturn {
	r := s.mem.rentals[rr.RentalID]
	c := s.mem.cars[r.CarID]
	rr.UserID = r.UserID
	rr.UserName = s.mem.users[r.UserID].Name
	rr.CarBrand, rr.CarModel = c.Brand, c.Model
	rr.RentalStartDate, rr.RentalEndDate, rr.RentalTotalFee = r.StartDate, r.EndDate, r.TotalFee
	return rr
}

func (s *MemoryRentalReturnStore) find(op, filter string, userID int64) ([]domain.RentalReturn, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure(op); err != nil {
		return nil, err
	}
	var out []domain.RentalReturn
	for _, id := range sortedIDs(s.mem.returns) {
		rr := s.joined(s.mem.returns[id])
		if userID > 0 && rr.UserID != userID {
			continue
		}
		if filter == "" || containsFold(rr.CarBrand, filter) ||
			containsFold(rr.CarModel, filter) || containsFold(rr.UserName, filter) {
			out = append(out, rr)
		}
	}
	return out, nil
}

func (s *MemoryRentalReturnStore) FindAll(_ context.Context, filter string) ([]domain.RentalReturn, error) {
	return s.find("RentalReturnStore.FindAll", filter, 0)
}

func (s *MemoryRentalReturnStore) FindAllForUser(
	_ context.Context,
	filter string,
	userID int64,
) ([]domain.RentalReturn, error) {
	return s.find("RentalReturnStore.FindAllForUser", filter, userID)
}

func (s *MemoryRentalReturnStore) FindByID(_ context.Context, id int64) (*domain.RentalReturn, error) {
	return s.findOne("RentalReturnStore.FindByID", id, 0)
}

func (s *MemoryRentalReturnStore) FindByIDForUser(_ context.Context, id, userID int64) (*domain.RentalReturn, error) {
	return s.findOne("RentalReturnStore.FindByIDForUser", id, userID)
}

func (s *MemoryRentalReturnStore) findOne(op string, id, userID int64) (*domain.RentalReturn, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure(op); err != nil {
		return nil, err
	}
	rr, ok := s.mem.returns[id]
	if !ok {
		return nil, store.ErrRentalReturnNotFound
	}
	rr = s.joined(rr)
	if userID > 0 && rr.UserID != userID {
		return nil, store.ErrRentalReturnNotFound
	}
	return &rr, nil
}

func (s *MemoryRentalReturnStore) ExistsForRental(_ context.Context, rentalID, excludeID int64) (bool, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalReturnStore.ExistsForRental"); err != nil {
		return false, err
	}
	return s.returned(rentalID, excludeID), nil
}

func (s *MemoryRentalReturnStore) returned(rentalID, excludeID int64) bool {
	for id, rr := range s.mem.returns {
		if id != excludeID && rr.RentalID == rentalID {
			return true
		}
	}
	return false
}

// stored strips the joined columns so reads always reflect current rows.
func stored(rr domain.RentalReturn) domain.RentalReturn {
	return domain.RentalReturn{
		ID:         rr.ID,
		RentalID:   rr.RentalID,
		ReturnDate: rr.ReturnDate,
		LateFee:    rr.LateFee,
		TotalFee:   rr.TotalFee,
		Audit:      rr.Audit,
	}
}

func (s *MemoryRentalReturnStore) Insert(_ context.Context, rr *domain.RentalReturn) (int64, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalReturnStore.Insert"); err != nil {
		return 0, err
	}
	if _, ok := s.mem.rentals[rr.RentalID]; !ok {
		return 0, store.ErrForeignKey
	}
	if s.returned(rr.RentalID, 0) {
		return 0, store.ErrRentalAlreadyReturned
	}
	row := stored(*rr)
	row.ID = s.mem.newID()
	s.mem.returns[row.ID] = row
	return row.ID, nil
}

func (s *MemoryRentalReturnStore) Update(_ context.Context, rr *domain.RentalReturn) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalReturnStore.Update"); err != nil {
		return err
	}
	if _, ok := s.mem.returns[rr.ID]; !ok {
		return store.ErrRentalReturnNotFound
	}
	if _, ok := s.mem.rentals[rr.RentalID]; !ok {
		return store.ErrForeignKey
	}
	if s.returned(rr.RentalID, rr.ID) {
		return store.ErrRentalAlreadyReturned
	}
	s.mem.returns[rr.ID] = stored(*rr)
	return nil
}

func (s *MemoryRentalReturnStore) Delete(_ context.Context, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if err := s.mem.failure("RentalReturnStore.Delete"); err != nil {
		return err
	}
	if _, ok := s.mem.returns[id]; !ok {
		return store.ErrRentalReturnNotFound
	}
	delete(s.mem.returns, id)
	return nil
}
