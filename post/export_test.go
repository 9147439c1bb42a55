package post

// ConvertForTest exposes convert.
var ConvertForTest = convert

// RelativeLinkForTest exposes relativeLink.
var RelativeLinkForTest = relativeLink

// AssetPathForTest exposes assetPath.
var AssetPathForTest = assetPath

// LocalPathForTest exposes localPath.
var LocalPathForTest = localPath
