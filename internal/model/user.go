package model

import "time"

// User is the identity persisted under the studyspot_user key. The only
// identity the service hands out is the fixed guest user.
type User struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Email     string    `json:"email"`
    Avatar    string    `json:"avatar"`
    Type      string    `json:"type"`
    CreatedAt time.Time `json:"createdAt"`
}
