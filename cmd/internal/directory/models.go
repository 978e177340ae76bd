package directory

import "roster/cmd/identity"

// userResponse is the public projection of a user. The password hash and
// refresh slot never leave the store boundary.
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUserResponses(users []identity.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type createUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ConfPassword string `json:"confPassword"`
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Password and ConfPassword are optional; when Password is set the pair
	// must match and the stored hash is replaced.
	Password     string `json:"password"`
	ConfPassword string `json:"confPassword"`
}

type userMutationResponse struct {
	Msg  string       `json:"msg"`
	User userResponse `json:"user"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}
