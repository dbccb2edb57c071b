package constant

// ServiceName 服务名，用于链路追踪与日志标识。
const ServiceName = "story_service"

// ServiceVersion 服务版本号。
const ServiceVersion = "v1.0.0"
