package state

import (
	"funpaybot/internal/models"
	"sync"
	"time"
)

// Store holds the runtime state shared by the bot dispatcher and the monitor.
type Store struct {
	mu       sync.RWMutex
	token    string
	accounts []models.Account
	rentals  map[string]models.Rental
}

// NewStore returns a Store seeded with the given catalog.
func NewStore(accounts []models.Account) *Store {
	if accounts == nil {
		accounts = []models.Account{}
	}
	return &Store{
		accounts: accounts,
		rentals:  make(map[string]models.Rental),
	}
}

// SetToken replaces the marketplace token. Last write wins.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// MarkRented records login as rented out.
func (s *Store) MarkRented(login string, at time.Time) {
	s.mu.Lock()
	s.rentals[login] = models.Rental{StartedAt: at}
	s.mu.Unlock()
}

// Release removes login from the active rentals.
func (s *Store) Release(login string) {
	s.mu.Lock()
	delete(s.rentals, login)
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy of the state used for rendering.
type Snapshot struct {
	HasToken      bool
	TotalAccounts int
	ActiveRentals int
	// Accounts holds at most the requested number of leading catalog entries.
	Accounts []AccountView
}

// AccountView pairs an account with its rental status.
type AccountView struct {
	Login  string
	Rented bool
}

// Snapshot copies the counters and the first limit accounts under a single read lock.
func (s *Store) Snapshot(limit int) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.accounts)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}
	views := make([]AccountView, 0, n)
	for _, acc := range s.accounts[:n] {
		_, rented := s.rentals[acc.Login]
		views = append(views, AccountView{Login: acc.DisplayLogin(), Rented: rented})
	}

	return Snapshot{
		HasToken:      s.token != "",
		TotalAccounts: len(s.accounts),
		ActiveRentals: len(s.rentals),
		Accounts:      views,
	}
}
