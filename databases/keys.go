package databases

// Key layout for the shared key-value store. Every collection gets its own
// prefix so the logically independent namespaces never collide.

const (
	activeCodePrefix  = "codes:active:"
	historyCodePrefix = "codes:history:"
	teacherDirPrefix  = "teachers:directory:"
	teacherRecPrefix  = "teachers:record:"
	fileMetaPrefix    = "files:meta:"
	historyLogPrefix  = "history:"
	configPrefix      = "config:"
)

func activeCodeKey(accessCode string) string  { return activeCodePrefix + accessCode }
func historyCodeKey(accessCode string) string { return historyCodePrefix + accessCode }
func teacherDirKey(id string) string          { return teacherDirPrefix + id }
func teacherRecKey(id string) string          { return teacherRecPrefix + id }
func fileMetaKey(id string) string            { return fileMetaPrefix + id }
func historyLogKey(entity, id string) string  { return historyLogPrefix + entity + ":" + id }
func configKey(key string) string             { return configPrefix + key }
