// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "context"

// Repository defines read access to the member directory.
type Repository interface {

	/*
		ListUsers returns every member of the directory, ordered by display name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Summary: Public identity triples
		  - error: Database retrieval failures
	*/
	ListUsers(context context.Context) ([]Summary, error)
}
