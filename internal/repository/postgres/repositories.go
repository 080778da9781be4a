package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users    *UserRepository
	Dealers  *DealerRepository
	Listings *ListingRepository
	Articles *ArticleRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Dealers:  NewDealerRepository(pool),
		Listings: NewListingRepository(pool),
		Articles: NewArticleRepository(pool),
	}
}
