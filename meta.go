package dida

// APIVersion represents the API and major version thereof with which this
// version of the client and server are compatible
const APIVersion = "github.com/2977094657/DidaAPI/v2"

// TypeMeta represents metadata about a resource type to help clients and
// servers mutually head off potential confusion over types (and versions of
// those types) sent over the wire
type TypeMeta struct {
	Kind       string `json:"kind,omitempty" bson:"kind,omitempty"`
	APIVersion string `json:"apiVersion,omitempty" bson:"apiVersion,omitempty"`
}
