package domain

import "net"

// User is a participant of a room. A user exists only while it is connected
// to at least one room; identity is the connection id handed out by the
// identity service. Either of the origin addresses may be absent.
type User struct {
	ConnectionId string `json:"connectionId"`
	UserName     string `json:"userName"`
	IPv4         net.IP `json:"ipv4,omitempty"`
	IPv6         net.IP `json:"ipv6,omitempty"`
}
