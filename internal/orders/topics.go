package orders

import "strconv"

// Satu topic untuk seluruh lifecycle; event_type ada di envelope + header.
const TopicOrderLifecycle = "order.lifecycle"

// Partition key = order code, supaya semua event 1 order maintain urutan.
func PartitionKey(code int64) []byte {
	return []byte(strconv.FormatInt(code, 10))
}
