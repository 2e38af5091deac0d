package services

import (
	"sort"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// ReadyDisplayLimit bounds the ready queue shown on kitchen boards.
const ReadyDisplayLimit = 10

// fallbackDisplayName is shown when neither an explicit customer name nor
// a linked account name is available.
const fallbackDisplayName = "Guest"

// BoardEntry is one order on a kitchen display queue.
type BoardEntry struct {
	OrderID     kernel.UUID
	OrderNumber int
	DisplayName string
	Status      order.Status
	WaitMinutes int
}

// BoardStats summarizes queue sizes for the display header.
type BoardStats struct {
	PreparingCount int
	ReadyCount     int
}

// Board is the derived kitchen display state for one location.
//
// Preparing holds orders in accepted or preparing, oldest first, so the
// kitchen works the queue fairly. Ready holds orders waiting for pickup,
// most recently ready first, capped to ReadyDisplayLimit entries.
type Board struct {
	Preparing []BoardEntry
	Ready     []BoardEntry
	Stats     BoardStats
}

// KitchenBoard derives display queues from current order state. It is the
// single aggregator implementation behind both the on-demand board query
// and the pushed kitchen snapshot event, so the two paths can never
// diverge.
type KitchenBoard struct{}

// NewKitchenBoard creates a new KitchenBoard instance.
func NewKitchenBoard() KitchenBoard {
	return KitchenBoard{}
}

// Build computes the board for a set of orders belonging to one location.
//
// Parameters:
//   - orders: the location's orders in accepted, preparing, or ready status;
//     orders in other statuses are ignored
//   - firstNames: linked-account first names keyed by user id, used when an
//     order carries no explicit customer name
//   - now: the moment wait times are measured against
//
// Wait minutes are measured from acceptedAt (falling back to createdAt)
// for the preparing queue and from readyAt for the ready queue.
func (KitchenBoard) Build(
	orders []*order.Order,
	firstNames map[kernel.UUID]string,
	now time.Time,
) Board {
	var preparing, ready []*order.Order
	for _, o := range orders {
		switch o.Status() {
		case order.Accepted, order.Preparing:
			preparing = append(preparing, o)
		case order.Ready:
			ready = append(ready, o)
		}
	}

	sort.SliceStable(preparing, func(i, j int) bool {
		return preparing[i].CreatedAt().Before(preparing[j].CreatedAt())
	})
	sort.SliceStable(ready, func(i, j int) bool {
		return readyTime(ready[i]).After(readyTime(ready[j]))
	})

	if len(ready) > ReadyDisplayLimit {
		ready = ready[:ReadyDisplayLimit]
	}

	board := Board{
		Preparing: make([]BoardEntry, 0, len(preparing)),
		Ready:     make([]BoardEntry, 0, len(ready)),
	}

	for _, o := range preparing {
		since := o.CreatedAt()
		if o.AcceptedAt() != nil {
			since = *o.AcceptedAt()
		}
		board.Preparing = append(board.Preparing, newEntry(o, firstNames, now, since))
	}
	for _, o := range ready {
		board.Ready = append(board.Ready, newEntry(o, firstNames, now, readyTime(o)))
	}

	board.Stats = BoardStats{
		PreparingCount: len(board.Preparing),
		ReadyCount:     len(board.Ready),
	}
	return board
}

func newEntry(o *order.Order, firstNames map[kernel.UUID]string, now, since time.Time) BoardEntry {
	return BoardEntry{
		OrderID:     o.ID(),
		OrderNumber: o.OrderNumber(),
		DisplayName: displayName(o, firstNames),
		Status:      o.Status(),
		WaitMinutes: waitMinutes(now, since),
	}
}

// displayName resolves the name shown on the board: the explicit customer
// name, else the linked account's first name, else a generic placeholder.
func displayName(o *order.Order, firstNames map[kernel.UUID]string) string {
	if o.CustomerName() != "" {
		return o.CustomerName()
	}
	if userID := o.UserID(); userID != nil {
		if name, ok := firstNames[*userID]; ok && name != "" {
			return name
		}
	}
	return fallbackDisplayName
}

func readyTime(o *order.Order) time.Time {
	if o.ReadyAt() != nil {
		return *o.ReadyAt()
	}
	return o.CreatedAt()
}

func waitMinutes(now, since time.Time) int {
	minutes := int(now.Sub(since) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}
