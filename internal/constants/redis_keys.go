package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// StopWordsModulePrefix 停用词模块
	StopWordsModulePrefix = "stopwords"

	// EntityText 文本实体
	EntityText = "text"
	// EntitySet 集合实体
	EntitySet = "set"
	// EntityURL URL 实体
	EntityURL = "url"

	// KeyJobDescriptionText JD文本缓存 (STRING)
	// 格式: app:job:text:{jobID}
	KeyJobDescriptionText = AppPrefix + ":" + JobModulePrefix + ":" + EntityText + ":%s"

	// KeyJobDescriptionURL 按 URL 抓取的 JD 文本缓存 (STRING)
	// 格式: app:job:url:{md5(url)}
	KeyJobDescriptionURL = AppPrefix + ":" + JobModulePrefix + ":" + EntityURL + ":%s"

	// KeyStopWordSet 停用词集合 (SET)
	// 格式: app:stopwords:set:{language}
	KeyStopWordSet = AppPrefix + ":" + StopWordsModulePrefix + ":" + EntitySet + ":%s"
)
