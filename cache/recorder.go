package cache

// Recorder observes cache activity, labelled by namespace. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Hit(namespace string)
	Miss(namespace string)
	Set(namespace string)
	// Reject counts writes refused by the capacity bound.
	Reject(namespace string)
	Evict(namespace string)
	Expire(namespace string)
	StorageError(namespace, op string)
	// Entries reports the raw entry count after a write.
	Entries(namespace string, n int)
}

type noopRecorder struct{}

func (noopRecorder) Hit(string)                  {}
func (noopRecorder) Miss(string)                 {}
func (noopRecorder) Set(string)                  {}
func (noopRecorder) Reject(string)               {}
func (noopRecorder) Evict(string)                {}
func (noopRecorder) Expire(string)               {}
func (noopRecorder) StorageError(string, string) {}
func (noopRecorder) Entries(string, int)         {}
