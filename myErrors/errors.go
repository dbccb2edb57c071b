package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrStoryNotDeleted 表示尝试恢复一个未处于软删除状态的故事
var ErrStoryNotDeleted = errors.New("story: not in deleted state")

// ErrRestoreWindowExpired 表示故事的恢复窗口（删除后7天）已过
var ErrRestoreWindowExpired = errors.New("story: restore window expired")

// ErrMediaFileInvalid 表示上传的媒体文件类型不被支持或超过大小限制
var ErrMediaFileInvalid = errors.New("story: media file invalid")
