package collection

const (
	EventCollectionCreated   = "collection:created"
	EventCollectionUpdated   = "collection:updated"
	EventCollectionDeleted   = "collection:deleted"
	EventCollectionReordered = "collection:reordered"
)
