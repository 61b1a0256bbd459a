// Copyright (c) 2026 Promptix. All rights reserved.

package directory

import "context"

// # Directory Data Access

// Repository defines the data access contract for the employee directory.
type Repository interface {

	/*
		FindByEmail returns the single profile with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Profile: Hydrated entity
		  - error: apperr NOT_FOUND when no row matches, FETCH_ERROR otherwise
	*/
	FindByEmail(context context.Context, email string) (*Profile, error)

	/*
		FindCredentials returns the profile and password hash for a normalized
		email or username.

		Parameters:
		  - context: context.Context
		  - login: string (see [NormalizeLogin])

		Returns:
		  - *Credentials: Profile plus hash
		  - error: apperr NOT_FOUND when no row matches, FETCH_ERROR otherwise
	*/
	FindCredentials(context context.Context, login string) (*Credentials, error)

	/*
		List returns a filtered page of profiles ordered by full name.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Profile: Page of profiles
		  - int: Total matching rows
		  - error: FETCH_ERROR on query failure
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Profile, int, error)
}
