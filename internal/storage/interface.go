package storage

// Interface is the contract for durable blob storage. Account records and
// any other operational state go through it so the backend (local disk or
// Azure Blob Storage) is a deployment choice, not a code change.
type Interface interface {
	Store(filename string, data []byte) error
	Retrieve(filename string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(filename string) error
}
