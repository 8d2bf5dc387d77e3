package constant

// ProgressKey is the storage key the per-show progress map is persisted under.
const ProgressKey = "showsProgress"
