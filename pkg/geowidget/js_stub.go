//go:build !js || !wasm

package geowidget

// defaultBinder accepts refs that already implement Target
func defaultBinder(ref any) Target {
	if t, ok := ref.(Target); ok && t != nil {
		return t
	}
	return nil
}

func defaultAssetLoader() AssetLoader {
	return AssetLoaderFunc(func(Assets) {})
}
