package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wheelshare/service-rental/internal/domain"
	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
	"github.com/wheelshare/service-rental/internal/events"
)

// passthroughTx runs the callback directly; unit tests exercise the
// services' logic, not transaction plumbing.
type passthroughTx struct{}

func (passthroughTx) Transactional(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// countingTx passes through like passthroughTx but counts invocations.
type countingTx struct{ calls int }

func (t *countingTx) Transactional(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// recordingPublisher collects published events instead of writing to Kafka.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, _ string, event events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) byType(eventType string) []events.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.CloudEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// memBookingRepo is an in-memory booking.Repository.
type memBookingRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[bookingDomain.BookingID]*bookingDomain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{nextID: 1, items: make(map[bookingDomain.BookingID]*bookingDomain.Booking)}
}

func cloneBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		b.ID(), b.CarID(), b.RenterID(), b.OwnerID(),
		b.StartDate(), b.EndDate(), b.State(), b.Version(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func (r *memBookingRepo) FindByID(_ context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, bookingDomain.NewBookingNotFoundError(id)
	}
	return cloneBooking(b), nil
}

func (r *memBookingRepo) FindAll(_ context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked(), nil
}

func (r *memBookingRepo) FindByUser(_ context.Context, userID userDomain.UserID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.sortedLocked() {
		if b.IsRentedBy(userID) || b.IsOwnedBy(userID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindByCarID(_ context.Context, carID carDomain.CarID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.sortedLocked() {
		if b.CarID() == carID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := bookingDomain.BookingID(r.nextID)
	r.nextID++
	saved := bookingDomain.Reconstruct(
		id, b.CarID(), b.RenterID(), b.OwnerID(),
		b.StartDate(), b.EndDate(), b.State(), b.Version(),
		b.CreatedAt(), b.UpdatedAt(),
	)
	r.items[id] = saved
	return cloneBooking(saved), nil
}

func (r *memBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[b.ID()]
	if !ok {
		return bookingDomain.NewBookingNotFoundError(b.ID())
	}
	if existing.Version() != b.Version()-1 {
		return domain.NewConflictError(fmt.Sprintf("booking %d was modified concurrently", b.ID()))
	}
	r.items[b.ID()] = cloneBooking(b)
	return nil
}

func (r *memBookingRepo) DeleteByID(_ context.Context, id bookingDomain.BookingID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, bookingDomain.NewBookingNotFoundError(id)
	}
	delete(r.items, id)
	return cloneBooking(b), nil
}

func (r *memBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sortedLocked()
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memBookingRepo) CountByState(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.items {
		counts[b.State().String()]++
	}
	return counts, nil
}

func (r *memBookingRepo) sortedLocked() []*bookingDomain.Booking {
	out := make([]*bookingDomain.Booking, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// memCarRepo is an in-memory car.Repository.
type memCarRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[carDomain.CarID]*carDomain.Car
}

func newMemCarRepo() *memCarRepo {
	return &memCarRepo{nextID: 1, items: make(map[carDomain.CarID]*carDomain.Car)}
}

func cloneCar(c *carDomain.Car) *carDomain.Car {
	return carDomain.Reconstruct(
		c.ID(), c.OwnerID(), c.CarTypeID(), c.Name(), c.State(),
		c.FuelType(), c.Horsepower(), c.LicensePlate(), c.Info(),
		c.CreatedAt(), c.UpdatedAt(),
	)
}

func (r *memCarRepo) FindByID(_ context.Context, id carDomain.CarID) (*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Car", fmt.Sprintf("%d", id))
	}
	return cloneCar(c), nil
}

func (r *memCarRepo) FindByLicensePlate(_ context.Context, plate string) (*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.LicensePlate() == plate {
			return cloneCar(c), nil
		}
	}
	return nil, nil
}

func (r *memCarRepo) FindAll(_ context.Context) ([]*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*carDomain.Car, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, cloneCar(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memCarRepo) Save(_ context.Context, c *carDomain.Car) (*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := carDomain.CarID(r.nextID)
	r.nextID++
	saved := carDomain.Reconstruct(
		id, c.OwnerID(), c.CarTypeID(), c.Name(), c.State(),
		c.FuelType(), c.Horsepower(), c.LicensePlate(), c.Info(),
		c.CreatedAt(), c.UpdatedAt(),
	)
	r.items[id] = saved
	return cloneCar(saved), nil
}

func (r *memCarRepo) Update(_ context.Context, c *carDomain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID()]; !ok {
		return domain.NewNotFoundError("Car", fmt.Sprintf("%d", c.ID()))
	}
	r.items[c.ID()] = cloneCar(c)
	return nil
}

// seedCar inserts a car owned by the given user and returns it.
func (r *memCarRepo) seed(ownerID userDomain.UserID, plate string) *carDomain.Car {
	c, err := carDomain.NewCar(ownerID, 1, "test car", carDomain.FuelPetrol, 90, plate, "")
	if err != nil {
		panic(err)
	}
	saved, err := r.Save(context.Background(), c)
	if err != nil {
		panic(err)
	}
	return saved
}

// memCarTypeRepo is an in-memory cartype.Repository.
type memCarTypeRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[cartypeDomain.CarTypeID]*cartypeDomain.CarType
}

func newMemCarTypeRepo() *memCarTypeRepo {
	return &memCarTypeRepo{nextID: 1, items: make(map[cartypeDomain.CarTypeID]*cartypeDomain.CarType)}
}

func cloneCarType(t *cartypeDomain.CarType) *cartypeDomain.CarType {
	return cartypeDomain.Reconstruct(t.ID(), t.Name(), t.ImageURL(), t.CreatedAt(), t.UpdatedAt())
}

func (r *memCarTypeRepo) FindByID(_ context.Context, id cartypeDomain.CarTypeID) (*cartypeDomain.CarType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("CarType", fmt.Sprintf("%d", id))
	}
	return cloneCarType(t), nil
}

func (r *memCarTypeRepo) FindAll(_ context.Context) ([]*cartypeDomain.CarType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*cartypeDomain.CarType, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, cloneCarType(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memCarTypeRepo) Save(_ context.Context, t *cartypeDomain.CarType) (*cartypeDomain.CarType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := cartypeDomain.CarTypeID(r.nextID)
	r.nextID++
	saved := cartypeDomain.Reconstruct(id, t.Name(), t.ImageURL(), t.CreatedAt(), t.UpdatedAt())
	r.items[id] = saved
	return cloneCarType(saved), nil
}

func (r *memCarTypeRepo) Update(_ context.Context, t *cartypeDomain.CarType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID()]; !ok {
		return domain.NewNotFoundError("CarType", fmt.Sprintf("%d", t.ID()))
	}
	r.items[t.ID()] = cloneCarType(t)
	return nil
}

// seed inserts a car type and returns its id.
func (r *memCarTypeRepo) seed(name string) cartypeDomain.CarTypeID {
	t, err := cartypeDomain.NewCarType(name, "")
	if err != nil {
		panic(err)
	}
	saved, err := r.Save(context.Background(), t)
	if err != nil {
		panic(err)
	}
	return saved.ID()
}

// memUserRepo is an in-memory user.Repository. Soft-deleted accounts
// are hidden from the finders like the real one does.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[userDomain.UserID]*userDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, items: make(map[userDomain.UserID]*userDomain.User)}
}

func cloneUser(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(
		u.ID(), u.Name(), u.PasswordHash(), u.Role(), u.IsDeleted(),
		u.CreatedAt(), u.UpdatedAt(),
	)
}

func (r *memUserRepo) FindByID(_ context.Context, id userDomain.UserID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok || u.IsDeleted() {
		return nil, domain.NewNotFoundError("User", fmt.Sprintf("%d", id))
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) FindByName(_ context.Context, name string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Name() == name && !u.IsDeleted() {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*userDomain.User
	for _, u := range r.items {
		if !u.IsDeleted() {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memUserRepo) Save(_ context.Context, u *userDomain.User) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := userDomain.UserID(r.nextID)
	r.nextID++
	saved := userDomain.Reconstruct(
		id, u.Name(), u.PasswordHash(), u.Role(), u.IsDeleted(),
		u.CreatedAt(), u.UpdatedAt(),
	)
	r.items[id] = saved
	return cloneUser(saved), nil
}

func (r *memUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[u.ID()]; !ok {
		return domain.NewNotFoundError("User", fmt.Sprintf("%d", u.ID()))
	}
	r.items[u.ID()] = cloneUser(u)
	return nil
}
