package layout

// FunctionID indexes the dispatch table. The order matches FunctionNames.
type FunctionID int

const (
	FnShowMessage FunctionID = iota
	FnShowQuestion
	FnGetInteger
	FnGetString
	FnShowError
	FnExecuteString
	FnExecuteFile
	FnScriptExecute
	FnVariableGlobalExists
	FnVariableGlobalGet
	FnVariableGlobalSet
	FnVariableLocalExists
	FnVariableLocalGet
	FnVariableLocalSet

	FnSpriteExists
	FnSpriteGetName
	FnSpriteGetNumber
	FnSpriteGetWidth
	FnSpriteGetHeight
	FnSpriteAdd
	FnSpriteReplace
	FnSpriteDuplicate
	FnSpriteAssign
	FnSpriteMerge
	FnSpriteDelete
	FnSpriteSetOffset
	FnSpriteCollisionMask
	FnSpriteCreateFromScreen
	FnSpriteAddFromScreen
	FnSpriteCreateFromSurface
	FnSpriteAddFromSurface
	FnSpriteSetAlphaFromSprite
	FnSpriteSave

	FnBackgroundExists
	FnBackgroundGetName
	FnBackgroundGetWidth
	FnBackgroundGetHeight
	FnBackgroundAdd
	FnBackgroundReplace
	FnBackgroundDuplicate
	FnBackgroundAssign
	FnBackgroundDelete
	FnBackgroundCreateColor
	FnBackgroundCreateGradient
	FnBackgroundCreateFromScreen
	FnBackgroundCreateFromSurface
	FnBackgroundSetAlphaFromBackground
	FnBackgroundSave

	FnSoundExists
	FnSoundGetName
	FnSoundGetKind
	FnSoundPlay
	FnSoundLoop
	FnSoundStop
	FnSoundStopAll
	FnSoundIsPlaying
	FnSoundVolume
	FnSoundPan
	FnSoundGlobalVolume
	FnSoundAdd
	FnSoundReplace
	FnSoundDelete

	FnScriptExists
	FnScriptGetName
	FnScriptGetText

	FnSurfaceCreate
	FnSurfaceFree
	FnSurfaceExists
	FnSurfaceGetWidth
	FnSurfaceGetHeight
	FnSurfaceGetTexture
	FnSurfaceSetTarget
	FnSurfaceResetTarget
	FnSurfaceGetPixel
	FnSurfaceSave
	FnSurfaceCopy
	FnDrawSurface
	FnDrawSurfaceExt

	FnDrawSprite
	FnDrawSpriteExt
	FnDrawSpriteStretched
	FnDrawSpritePart
	FnDrawBackground
	FnDrawBackgroundExt
	FnDrawBackgroundStretched
	FnDrawText
	FnDrawTextExt
	FnDrawSetColor
	FnDrawSetAlpha
	FnDrawSetFont
	FnDrawRectangle
	FnDrawLine
	FnDrawCircle
	FnDrawClear
	FnDrawGetColor
	FnDrawGetAlpha
	FnScreenRedraw
	FnScreenRefresh
	FnScreenSave

	FnTextureGetWidth
	FnTextureGetHeight
	FnTextureSetInterpolation
	FnTextureSetBlending
	FnTextureSetRepeat

	FnInstanceCreate
	FnInstanceDestroy
	FnInstanceExists
	FnInstanceNumber
	FnInstanceFind
	FnInstanceNearest
	FnObjectExists
	FnObjectGetName
	FnObjectGetSprite
	FnObjectSetSprite

	FnRoomGoto
	FnRoomGotoNext
	FnRoomGotoPrevious
	FnRoomRestart
	FnRoomExists
	FnRoomGetName
	FnGameEnd
	FnGameRestart
	FnGameSave
	FnGameLoad

	FnWindowHandle
	FnWindowSetCaption
	FnWindowGetCaption
	FnWindowSetFullscreen
	FnWindowGetFullscreen
	FnWindowGetWidth
	FnWindowGetHeight

	FnFileExists
	FnFileDelete
	FnFileTextOpenRead
	FnFileTextOpenWrite
	FnFileTextClose
	FnFileTextReadString
	FnFileTextWriteString
	FnFileTextEOF

	FnRandom
	FnRound
	FnFloor
	FnCeil
	FnString
	FnReal
	FnStringLength
	FnStringCopy
	FnStringPos
	FnCurrentTime

	FnKeyboardCheck
	FnKeyboardCheckPressed
	FnMouseCheckButton

	FnExternalDefine
	FnExternalCall
	FnExternalFree

	FunctionCount
)

// FunctionNames are the engine's names for each FunctionID.
var FunctionNames = [FunctionCount]string{
	"show_message",
	"show_question",
	"get_integer",
	"get_string",
	"show_error",
	"execute_string",
	"execute_file",
	"script_execute",
	"variable_global_exists",
	"variable_global_get",
	"variable_global_set",
	"variable_local_exists",
	"variable_local_get",
	"variable_local_set",

	"sprite_exists",
	"sprite_get_name",
	"sprite_get_number",
	"sprite_get_width",
	"sprite_get_height",
	"sprite_add",
	"sprite_replace",
	"sprite_duplicate",
	"sprite_assign",
	"sprite_merge",
	"sprite_delete",
	"sprite_set_offset",
	"sprite_collision_mask",
	"sprite_create_from_screen",
	"sprite_add_from_screen",
	"sprite_create_from_surface",
	"sprite_add_from_surface",
	"sprite_set_alpha_from_sprite",
	"sprite_save",

	"background_exists",
	"background_get_name",
	"background_get_width",
	"background_get_height",
	"background_add",
	"background_replace",
	"background_duplicate",
	"background_assign",
	"background_delete",
	"background_create_color",
	"background_create_gradient",
	"background_create_from_screen",
	"background_create_from_surface",
	"background_set_alpha_from_background",
	"background_save",

	"sound_exists",
	"sound_get_name",
	"sound_get_kind",
	"sound_play",
	"sound_loop",
	"sound_stop",
	"sound_stop_all",
	"sound_isplaying",
	"sound_volume",
	"sound_pan",
	"sound_global_volume",
	"sound_add",
	"sound_replace",
	"sound_delete",

	"script_exists",
	"script_get_name",
	"script_get_text",

	"surface_create",
	"surface_free",
	"surface_exists",
	"surface_get_width",
	"surface_get_height",
	"surface_get_texture",
	"surface_set_target",
	"surface_reset_target",
	"surface_getpixel",
	"surface_save",
	"surface_copy",
	"draw_surface",
	"draw_surface_ext",

	"draw_sprite",
	"draw_sprite_ext",
	"draw_sprite_stretched",
	"draw_sprite_part",
	"draw_background",
	"draw_background_ext",
	"draw_background_stretched",
	"draw_text",
	"draw_text_ext",
	"draw_set_color",
	"draw_set_alpha",
	"draw_set_font",
	"draw_rectangle",
	"draw_line",
	"draw_circle",
	"draw_clear",
	"draw_get_color",
	"draw_get_alpha",
	"screen_redraw",
	"screen_refresh",
	"screen_save",

	"texture_get_width",
	"texture_get_height",
	"texture_set_interpolation",
	"texture_set_blending",
	"texture_set_repeat",

	"instance_create",
	"instance_destroy",
	"instance_exists",
	"instance_number",
	"instance_find",
	"instance_nearest",
	"object_exists",
	"object_get_name",
	"object_get_sprite",
	"object_set_sprite",

	"room_goto",
	"room_goto_next",
	"room_goto_previous",
	"room_restart",
	"room_exists",
	"room_get_name",
	"game_end",
	"game_restart",
	"game_save",
	"game_load",

	"window_handle",
	"window_set_caption",
	"window_get_caption",
	"window_set_fullscreen",
	"window_get_fullscreen",
	"window_get_width",
	"window_get_height",

	"file_exists",
	"file_delete",
	"file_text_open_read",
	"file_text_open_write",
	"file_text_close",
	"file_text_read_string",
	"file_text_write_string",
	"file_text_eof",

	"random",
	"round",
	"floor",
	"ceil",
	"string",
	"real",
	"string_length",
	"string_copy",
	"string_pos",
	"current_time",

	"keyboard_check",
	"keyboard_check_pressed",
	"mouse_check_button",

	"external_define",
	"external_call",
	"external_free",
}

func (id FunctionID) String() string {
	if id < 0 || id >= FunctionCount {
		return "unknown"
	}
	return FunctionNames[id]
}

// Valid reports whether id has a dispatch slot.
func (id FunctionID) Valid() bool {
	return id >= 0 && id < FunctionCount && int(id) < DispatchCapacity
}
